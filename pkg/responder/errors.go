package responder

import "errors"

// Sentinel errors for common error conditions.
var (
	// ErrNoAPIKey is returned when the API key is missing.
	ErrNoAPIKey = errors.New("responder: API key required")

	// ErrEmptyReply is returned when the model returns no usable content.
	ErrEmptyReply = errors.New("responder: model returned empty reply")
)
