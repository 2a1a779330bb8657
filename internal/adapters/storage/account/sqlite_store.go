package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/account"
)

const columns = "id, email, password_hash, role, created_at, failed_logins, locked_until"

// SQLiteStore keeps accounts in the account table.
type SQLiteStore struct {
	db storage.SQLDB
}

func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID returns the account or an error wrapping storage.ErrNotFound.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return s.getBy(ctx, "id", id)
}

// GetByEmail looks the account up by its normalised email.
// POST: an unknown email yields an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return s.getBy(ctx, "email", domain.NormalizeEmail(email))
}

// getBy loads one account where column equals key. column is never user input.
func (s *SQLiteStore) getBy(ctx context.Context, column, key string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM account WHERE "+column+" = ?", key)
	a, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account %s=%s: %w", column, key, storage.ErrNotFound)
	}
	return a, err
}

// Save upserts the account by id.
// PRE: a.Validate() == nil
// INVARIANT: created_at keeps its first value
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO account (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email=excluded.email, password_hash=excluded.password_hash, role=excluded.role,
			failed_logins=excluded.failed_logins, locked_until=excluded.locked_until`,
		a.ID, domain.NormalizeEmail(a.Email), a.PasswordHash, a.Role,
		storage.FormatTime(a.CreatedAt), a.FailedLogins, storage.FormatTime(a.LockedUntil),
	)
	return err
}

// Count is zero until the first admin is bootstrapped.
func (s *SQLiteStore) Count(ctx context.Context) (n int, err error) {
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&n)
	return n, err
}

func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var (
		a         domain.Account
		created   string
		lockedEnd sql.NullString
	)
	if err := scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &created, &a.FailedLogins, &lockedEnd); err != nil {
		return domain.Account{}, err
	}
	var err error
	if a.CreatedAt, err = storage.ParseTime(created); err != nil {
		return domain.Account{}, fmt.Errorf("account %s created_at: %w", a.ID, err)
	}
	if lockedEnd.Valid {
		if a.LockedUntil, err = storage.ParseTime(lockedEnd.String); err != nil {
			return domain.Account{}, fmt.Errorf("account %s locked_until: %w", a.ID, err)
		}
	}
	return a, nil
}
