package store

import "errors"

// ErrUnavailable is returned by Stats when no database is configured.
// Distinct from an empty result: the question cannot be answered at all.
var ErrUnavailable = errors.New("store: database not configured")
