package account

import (
	"errors"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Credential limits.
const (
	MaxEmailLength    = 254
	MinPasswordLength = 8
)

// Roles a desk account can hold. Admins run the front desk; members only see their own pages.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// ValidRoles lists every assignable role.
var ValidRoles = []string{RoleAdmin, RoleMember}

// Sign-in throttling: this many consecutive failures lock the account for LockoutDuration.
const (
	MaxFailedLogins = 5
	LockoutDuration = 15 * time.Minute
)

var (
	ErrEmptyEmail       = errors.New("account: email is required")
	ErrInvalidEmail     = errors.New("account: email is not an address")
	ErrEmailTooLong     = errors.New("account: email is longer than 254 characters")
	ErrInvalidRole      = errors.New("account: role must be admin or member")
	ErrEmptyPassword    = errors.New("account: password is required")
	ErrPasswordTooShort = errors.New("account: password is shorter than 8 characters")
	ErrWrongPassword    = errors.New("account: email or password does not match")
	ErrLocked           = errors.New("account: locked after repeated failed sign-ins")
)

// Account is a sign-in identity for the desk. Its role is mirrored on the linked profile.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	FailedLogins int
	LockedUntil  time.Time
}

// Validate reports the first problem with the identity fields.
// POST: nil means Email looks like an address and Role is assignable
func (a *Account) Validate() error {
	email := strings.TrimSpace(a.Email)
	switch {
	case email == "":
		return ErrEmptyEmail
	case len(email) > MaxEmailLength:
		return ErrEmailTooLong
	case !strings.Contains(email, "@"):
		return ErrInvalidEmail
	case !IsValidRole(a.Role):
		return ErrInvalidRole
	}
	return nil
}

// NormalizeEmail is the lookup key for an email: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword replaces PasswordHash with a bcrypt hash of plaintext.
// PRE: len(plaintext) >= MinPasswordLength
func (a *Account) SetPassword(plaintext string) error {
	switch {
	case plaintext == "":
		return ErrEmptyPassword
	case len(plaintext) < MinPasswordLength:
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword returns ErrWrongPassword unless plaintext matches the stored hash.
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)) != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked reports whether sign-in is refused at now.
func (a *Account) IsLocked(now time.Time) bool {
	return !a.LockedUntil.IsZero() && now.Before(a.LockedUntil)
}

// RecordFailedLogin counts one bad password.
// POST: once FailedLogins reaches MaxFailedLogins, LockedUntil = now + LockoutDuration
func (a *Account) RecordFailedLogin(now time.Time) {
	a.FailedLogins++
	if a.FailedLogins >= MaxFailedLogins {
		a.LockedUntil = now.Add(LockoutDuration)
	}
}

// ResetFailedLogins clears the failure streak after a good sign-in.
func (a *Account) ResetFailedLogins() {
	a.FailedLogins, a.LockedUntil = 0, time.Time{}
}

func (a *Account) IsAdmin() bool { return a.Role == RoleAdmin }

// IsValidRole reports whether role is one of ValidRoles.
func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, role)
}
