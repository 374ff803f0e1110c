package tts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNoVoice is returned when no voice model is configured.
	ErrNoVoice = errors.New("tts: voice model required")

	// ErrEmptyText is returned when there is nothing to synthesize.
	ErrEmptyText = errors.New("tts: empty text")
)

// ExitError is returned when the synthesis process exits non-zero.
// It carries the process exit status and captured diagnostic output.
type ExitError struct {
	// Code is the process exit status.
	Code int

	// Stderr is the captured diagnostic output.
	Stderr string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("tts: piper failed (rc=%d): %s", e.Code, e.Stderr)
}
