// Package store persists conversation turns.
//
// Two implementations exist: LibSQL, backed by an embedded or remote
// libsql/SQLite database, and Noop, selected at startup when no database
// is configured. Callers never nil-check: the no-op store degrades every
// operation gracefully except Stats, which reports unavailability so
// "no data" and "cannot answer" stay distinguishable.
package store

import (
	"context"
	"time"
)

// Turn is one question/response exchange. Turns are write-once: they are
// never updated or deleted after creation.
type Turn struct {
	UserID    string    `json:"user_id"`
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

// UserStats aggregates a user's learning activity.
type UserStats struct {
	UserID             string         `json:"user_id"`
	TotalConversations int            `json:"total_conversations"`
	Languages          map[string]int `json:"languages"`
}

// Store defines conversation persistence operations.
type Store interface {
	// SaveTurn appends a turn. Turns are append-only; concurrent saves
	// for the same user are independent inserts ordered by arrival.
	SaveTurn(ctx context.Context, turn Turn) error

	// RecentTurns returns up to limit most recent turns for a user,
	// ordered oldest-first.
	RecentTurns(ctx context.Context, userID string, limit int) ([]Turn, error)

	// Stats returns aggregate statistics for a user, or ErrUnavailable
	// when no database is configured.
	Stats(ctx context.Context, userID string) (*UserStats, error)

	// Connected reports whether a real database is behind this store.
	Connected() bool

	// Close releases database resources.
	Close() error
}
