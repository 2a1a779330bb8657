package class

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/class"
)

const columns = "id, name, instructor, date, time, duration, capacity, enrolled, description, status"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new class store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Class by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Class, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM class WHERE id = ?", id)
	c, err := scanClass(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Class{}, fmt.Errorf("class %s: %w", id, storage.ErrNotFound)
	}
	return c, err
}

// Save upserts a Class.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, c domain.Class) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO class (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, instructor=excluded.instructor, date=excluded.date,
			time=excluded.time, duration=excluded.duration, capacity=excluded.capacity,
			enrolled=excluded.enrolled, description=excluded.description, status=excluded.status`,
		c.ID, c.Name, c.Instructor, c.Date, c.Time, c.Duration, c.Capacity, c.Enrolled, c.Description, c.Status,
	)
	return err
}

// Delete removes a Class. Deleting a missing id is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM class WHERE id = ?", id)
	return err
}

// List returns every class ordered by date then time.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Class, error) {
	return storage.QueryAll(ctx, s.db, scanClass, "SELECT "+columns+" FROM class ORDER BY date, time, name")
}

func scanClass(scan func(dest ...any) error) (domain.Class, error) {
	var c domain.Class
	err := scan(&c.ID, &c.Name, &c.Instructor, &c.Date, &c.Time, &c.Duration, &c.Capacity, &c.Enrolled, &c.Description, &c.Status)
	return c, err
}
