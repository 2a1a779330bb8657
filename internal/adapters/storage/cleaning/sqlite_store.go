package cleaning

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/cleaning"
)

const columns = "id, area, assigned_to, frequency, last_cleaned, next_due, status, notes"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new cleaning task store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Task by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Task, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM cleaning_task WHERE id = ?", id)
	t, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, fmt.Errorf("cleaning task %s: %w", id, storage.ErrNotFound)
	}
	return t, err
}

// Save upserts a Task.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, t domain.Task) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO cleaning_task (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			area=excluded.area, assigned_to=excluded.assigned_to, frequency=excluded.frequency,
			last_cleaned=excluded.last_cleaned, next_due=excluded.next_due,
			status=excluded.status, notes=excluded.notes`,
		t.ID, t.Area, t.AssignedTo, t.Frequency, t.LastCleaned, t.NextDue, t.Status, t.Notes,
	)
	return err
}

// Delete removes a Task. Deleting a missing id is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cleaning_task WHERE id = ?", id)
	return err
}

// List returns every task, soonest due first; tasks without a due date last.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+columns+" FROM cleaning_task ORDER BY next_due = '', next_due, area")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTask(scan func(dest ...any) error) (domain.Task, error) {
	var t domain.Task
	err := scan(&t.ID, &t.Area, &t.AssignedTo, &t.Frequency, &t.LastCleaned, &t.NextDue, &t.Status, &t.Notes)
	return t, err
}
