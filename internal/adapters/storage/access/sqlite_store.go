package access

import (
	"context"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/access"
)

// SQLiteLogStore implements LogStore on the access_log table.
type SQLiteLogStore struct {
	db storage.SQLDB
}

// NewSQLiteLogStore creates a new access log store.
func NewSQLiteLogStore(db storage.SQLDB) *SQLiteLogStore {
	return &SQLiteLogStore{db: db}
}

// Record appends one scan.
func (s *SQLiteLogStore) Record(ctx context.Context, e domain.LogEntry) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO access_log (id, timestamp, result, presented, reason) VALUES (?, ?, ?, ?, ?)",
		e.ID, storage.FormatTime(e.Timestamp), e.Result, e.Presented, e.Reason)
	return err
}

// List returns the most recent scans first.
// PRE: limit > 0
func (s *SQLiteLogStore) List(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, timestamp, result, presented, reason FROM access_log ORDER BY timestamp DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.Result, &e.Presented, &e.Reason); err != nil {
			return nil, err
		}
		if e.Timestamp, err = storage.ParseTime(ts); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
