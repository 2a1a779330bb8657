package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/profile"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new profile store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID resolves the profile linked to an account.
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, accountID string) (domain.Profile, error) {
	var p domain.Profile
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, first_name, last_name, role FROM profile WHERE id = ?", accountID,
	).Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", accountID, storage.ErrNotFound)
	}
	return p, err
}

// Save upserts a profile.
// PRE: the linked account row exists
func (s *SQLiteStore) Save(ctx context.Context, p domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO profile (id, email, first_name, last_name, role)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email=excluded.email, first_name=excluded.first_name,
			last_name=excluded.last_name, role=excluded.role`,
		p.ID, p.Email, p.FirstName, p.LastName, p.Role,
	)
	return err
}
