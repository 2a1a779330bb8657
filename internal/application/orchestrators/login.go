package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gymdesk/internal/domain/account"
)

// AccountStoreForLogin is the slice of the account store sign-in needs.
type AccountStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string `schema:"email"`
	Password string `schema:"password"`
}

// LoginResult identifies the account that signed in.
type LoginResult struct {
	AccountID string
	Email     string
	Role      string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
	Now          func() time.Time
}

var (
	ErrInvalidCredentials = errors.New("login: email or password is wrong")
	ErrAccountLocked      = errors.New("login: account locked after too many failed attempts")
)

// ExecuteLogin checks an email and password against the stored account.
// POST: a wrong password increments FailedLogins; the account locks at account.MaxFailedLogins
// INVARIANT: a locked account is rejected before its password is checked
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	now := clock(deps.Now)
	email := account.NormalizeEmail(input.Email)
	reject := func(reason string, err error, attrs ...any) (LoginResult, error) {
		slog.Info("auth_event", append([]any{"event", "login_rejected", "email", email, "reason", reason}, attrs...)...)
		return LoginResult{}, err
	}
	if email == "" || input.Password == "" {
		return reject("missing_field", ErrInvalidCredentials)
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if err != nil {
		return reject("unknown_email", ErrInvalidCredentials)
	}
	if acct.IsLocked(now) {
		return reject("locked", ErrAccountLocked, "locked_until", acct.LockedUntil)
	}

	if acct.CheckPassword(input.Password) != nil {
		acct.RecordFailedLogin(now)
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			slog.Error("auth_event", "event", "failed_login_not_recorded", "email", email, "error", err)
		}
		return reject("wrong_password", ErrInvalidCredentials, "failed_logins", acct.FailedLogins)
	}

	if acct.FailedLogins > 0 || !acct.LockedUntil.IsZero() {
		acct.ResetFailedLogins()
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return LoginResult{}, fmt.Errorf("clear failed logins: %w", err)
		}
	}

	slog.Info("auth_event", "event", "login_success", "email", email, "role", acct.Role)
	return LoginResult{AccountID: acct.ID, Email: acct.Email, Role: acct.Role}, nil
}

// clock reads now, falling back to the wall clock when it is nil.
func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}
