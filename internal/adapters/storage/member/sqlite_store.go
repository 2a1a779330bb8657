package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/member"
)

const columns = "id, name, email, membership_type, status, join_date"

// SQLiteStore keeps the member roster.
type SQLiteStore struct {
	db storage.SQLDB
}

func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID returns the member or an error wrapping storage.ErrNotFound.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM member WHERE id = ?", id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("member %s: %w", id, storage.ErrNotFound)
	}
	return m, err
}

// Save upserts m by id.
// PRE: m.Validate() == nil
func (s *SQLiteStore) Save(ctx context.Context, m domain.Member) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO member (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, email=excluded.email, membership_type=excluded.membership_type,
			status=excluded.status, join_date=excluded.join_date`,
		m.ID, m.Name, m.Email, m.MembershipType, m.Status, m.JoinDate,
	)
	return err
}

// Delete removes a Member. Deleting a missing id is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	return err
}

// List returns every member, newest join date first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Member, error) {
	return storage.QueryAll(ctx, s.db, scanMember, "SELECT "+columns+" FROM member ORDER BY join_date DESC, name")
}

// CountByStatus returns active/inactive head counts for the dashboard.
func (s *SQLiteStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	return storage.CountBy(ctx, s.db, "SELECT status, COUNT(*) FROM member GROUP BY status")
}

func scanMember(row storage.ScanFunc) (domain.Member, error) {
	var m domain.Member
	err := row(&m.ID, &m.Name, &m.Email, &m.MembershipType, &m.Status, &m.JoinDate)
	return m, err
}
