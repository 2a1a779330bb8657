package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/outbox"
)

const columns = `id, action_type, payload, status, attempts, max_attempts, last_attempted_at, created_at, external_id, error_message`

// SQLiteStore keeps deferred side effects in the outbox table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new outbox store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID returns one entry.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	e, err := scan(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM outbox WHERE id = ?", id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entry{}, fmt.Errorf("outbox entry %s: %w", id, storage.ErrNotFound)
	}
	return e, err
}

// Save inserts or updates an entry.
// PRE: e has been validated
func (s *SQLiteStore) Save(ctx context.Context, e domain.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outbox (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status=excluded.status, attempts=excluded.attempts, max_attempts=excluded.max_attempts,
		   last_attempted_at=excluded.last_attempted_at, external_id=excluded.external_id,
		   error_message=excluded.error_message`,
		e.ID, e.ActionType, e.Payload, e.Status, e.Attempts, e.MaxAttempts,
		storage.FormatTime(e.LastAttemptedAt), storage.FormatTime(e.CreatedAt), e.ExternalID, e.ErrorMessage)
	return err
}

// ListPending returns open entries oldest first; backoff is left to the processor.
func (s *SQLiteStore) ListPending(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.query(ctx, "SELECT "+columns+" FROM outbox WHERE status IN (?, ?) ORDER BY created_at ASC LIMIT ?",
		domain.StatusPending, domain.StatusRetrying, limit)
}

// List returns entries newest first, all of them when status is empty.
func (s *SQLiteStore) List(ctx context.Context, status string, limit int) ([]domain.Entry, error) {
	q := "SELECT " + columns + " FROM outbox WHERE (? = '' OR status = ?) ORDER BY created_at DESC LIMIT ?"
	return s.query(ctx, q, status, status, limit)
}

// CountByStatus groups entries by status.
func (s *SQLiteStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	return storage.CountBy(ctx, s.db, "SELECT status, COUNT(*) FROM outbox GROUP BY status")
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]domain.Entry, error) {
	return storage.QueryAll(ctx, s.db, scan, q, args...)
}

func scan(row storage.ScanFunc) (domain.Entry, error) {
	var (
		e       domain.Entry
		last    sql.NullString
		created string
	)
	if err := row(&e.ID, &e.ActionType, &e.Payload, &e.Status, &e.Attempts, &e.MaxAttempts,
		&last, &created, &e.ExternalID, &e.ErrorMessage); err != nil {
		return domain.Entry{}, err
	}
	var err error
	if e.CreatedAt, err = storage.ParseTime(created); err != nil {
		return domain.Entry{}, err
	}
	if e.LastAttemptedAt, err = storage.ParseTime(last.String); err != nil {
		return domain.Entry{}, err
	}
	return e, nil
}
