package equipment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/equipment"
)

const columns = "id, name, type, location, status, last_maintenance, notes"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new equipment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Unit by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Unit, error) {
	var u domain.Unit
	err := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM equipment WHERE id = ?", id).
		Scan(&u.ID, &u.Name, &u.Type, &u.Location, &u.Status, &u.LastMaintenance, &u.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Unit{}, fmt.Errorf("equipment %s: %w", id, storage.ErrNotFound)
	}
	return u, err
}

// Save upserts a Unit.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, u domain.Unit) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO equipment (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, type=excluded.type, location=excluded.location,
			status=excluded.status, last_maintenance=excluded.last_maintenance, notes=excluded.notes`,
		u.ID, u.Name, u.Type, u.Location, u.Status, u.LastMaintenance, u.Notes,
	)
	return err
}

// Delete removes a Unit. Deleting a missing id is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM equipment WHERE id = ?", id)
	return err
}

// List returns every unit ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Unit, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+columns+" FROM equipment ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Unit
	for rows.Next() {
		var u domain.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.Type, &u.Location, &u.Status, &u.LastMaintenance, &u.Notes); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
