package profile

import (
	"errors"
	"strings"

	"gymdesk/internal/domain/account"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Domain errors
var (
	ErrEmptyAccountID = errors.New("profile must belong to an account")
	ErrNameTooLong    = errors.New("names cannot exceed 100 characters")
)

// Profile is the role-bearing record linked 1:1 to an account.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// Validate checks if the Profile has valid data.
// PRE: Profile struct is populated
// POST: Returns error if validation fails, nil otherwise
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyAccountID
	}
	if len(p.FirstName) > MaxNameLength || len(p.LastName) > MaxNameLength {
		return ErrNameTooLong
	}
	if !account.IsValidRole(p.Role) {
		return account.ErrInvalidRole
	}
	return nil
}

// DisplayName returns "First Last", falling back to the email.
// INVARIANT: Profile fields are not mutated
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Email
	}
	return name
}

// IsAdmin returns true for admin profiles.
func (p Profile) IsAdmin() bool {
	return p.Role == account.RoleAdmin
}
