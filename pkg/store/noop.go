package store

import "context"

// Noop implements Store for stateless operation. Saves are dropped,
// history is always empty, and stats report unavailability.
type Noop struct{}

// NewNoop creates a no-op store.
func NewNoop() *Noop { return &Noop{} }

// SaveTurn discards the turn.
func (*Noop) SaveTurn(ctx context.Context, turn Turn) error { return nil }

// RecentTurns returns an empty history.
func (*Noop) RecentTurns(ctx context.Context, userID string, limit int) ([]Turn, error) {
	return nil, nil
}

// Stats reports that no database is configured.
func (*Noop) Stats(ctx context.Context, userID string) (*UserStats, error) {
	return nil, ErrUnavailable
}

// Connected returns false.
func (*Noop) Connected() bool { return false }

// Close is a no-op.
func (*Noop) Close() error { return nil }
