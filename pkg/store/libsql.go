package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    TEXT NOT NULL,
	question   TEXT NOT NULL,
	response   TEXT NOT NULL,
	language   TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_user_created ON turns (user_id, created_at);
`

// timeLayout keeps a fixed-width fraction so stored timestamps sort
// chronologically under text comparison. RFC3339Nano trims trailing
// zeros and does not.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// LibSQL implements Store on a libsql/SQLite database. Works with an
// embedded file database or a remote libsql:// URL.
type LibSQL struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewLibSQL opens the database at url and ensures the schema exists.
// Plain file paths are accepted and treated as embedded databases.
func NewLibSQL(url string, logger *slog.Logger) (*LibSQL, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := url
	if !strings.Contains(dsn, "://") && !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	logger.Info("connected to database", "url", url)

	return &LibSQL{
		db:     db,
		logger: logger.With("component", "store.libsql"),
	}, nil
}

// SaveTurn appends a turn.
func (s *LibSQL) SaveTurn(ctx context.Context, turn Turn) error {
	ts := turn.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (user_id, question, response, language, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		turn.UserID, turn.Question, turn.Response, turn.Language,
		ts.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("store: save turn: %w", err)
	}
	return nil
}

// RecentTurns returns up to limit most recent turns, oldest-first.
func (s *LibSQL) RecentTurns(ctx context.Context, userID string, limit int) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, question, response, language, created_at
		 FROM turns WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var created string
		if err := rows.Scan(&t.UserID, &t.Question, &t.Response, &t.Language, &created); err != nil {
			return nil, fmt.Errorf("store: scan turn: %w", err)
		}
		if ts, err := time.Parse(timeLayout, created); err == nil {
			t.Timestamp = ts
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate turns: %w", err)
	}

	// Query is newest-first for the LIMIT; callers want oldest-first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	return turns, nil
}

// Stats aggregates turn counts per detected language.
func (s *LibSQL) Stats(ctx context.Context, userID string) (*UserStats, error) {
	stats := &UserStats{
		UserID:    userID,
		Languages: make(map[string]int),
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT language, COUNT(*) FROM turns
		 WHERE user_id = ? GROUP BY language`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: aggregate languages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var language string
		var count int
		if err := rows.Scan(&language, &count); err != nil {
			return nil, fmt.Errorf("store: scan aggregate: %w", err)
		}
		stats.Languages[language] = count
		stats.TotalConversations += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate aggregates: %w", err)
	}

	return stats, nil
}

// Connected returns true when the database answers a ping.
func (s *LibSQL) Connected() bool {
	return s.db.Ping() == nil
}

// Close releases database resources.
func (s *LibSQL) Close() error {
	return s.db.Close()
}
