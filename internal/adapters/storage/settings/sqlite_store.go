package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
)

// SQLiteStore implements Store on the setting table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new settings store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get reads one setting.
// POST: Returns the value or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, time.Time, error) {
	var value, updated string
	err := s.db.QueryRowContext(ctx, "SELECT value, updated_at FROM setting WHERE key = ?", key).Scan(&value, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, fmt.Errorf("setting %s: %w", key, storage.ErrNotFound)
	}
	if err != nil {
		return "", time.Time{}, err
	}
	at, err := storage.ParseTime(updated)
	return value, at, err
}

// Put replaces one setting wholesale.
func (s *SQLiteStore) Put(ctx context.Context, key, value string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO setting (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, storage.FormatTime(at))
	return err
}
