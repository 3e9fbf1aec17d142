package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"totem/pkg/platform/sentinel"
)

// Schema is safe to apply multiple times.
const schema = `
CREATE TABLE IF NOT EXISTS tablet_config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// SQLite persists settings in the on-device database. The driver is
// modernc.org/sqlite (pure Go, no cgo toolchain on the tablet image).
type SQLite struct {
	db *sql.DB
}

// NewSQLite applies the schema and returns the store.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create config schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM tablet_config WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read config key %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tablet_config (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write config key %q: %w", key, err)
	}
	return nil
}
