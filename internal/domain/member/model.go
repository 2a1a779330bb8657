package member

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the layout of JoinDate.
const DateLayout = "2006-01-02"

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxEmailLength = 254
)

// Business rule constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"

	MembershipBasic    = "Basic"
	MembershipStandard = "Standard"
	MembershipPremium  = "Premium"
)

// Statuses lists the valid member statuses.
var Statuses = []string{StatusActive, StatusInactive, StatusPending}

// MembershipTypes lists the valid membership tiers.
var MembershipTypes = []string{MembershipBasic, MembershipStandard, MembershipPremium}

// Domain errors
var (
	ErrEmptyName         = errors.New("member name cannot be empty")
	ErrInvalidEmail      = errors.New("member email must be valid")
	ErrInvalidMembership = errors.New("membership type must be 'Basic', 'Standard', or 'Premium'")
	ErrInvalidStatus     = errors.New("status must be 'active', 'inactive', or 'pending'")
	ErrInvalidJoinDate   = errors.New("join date must be YYYY-MM-DD")
	ErrAlreadyActive     = errors.New("member is already active")
	ErrAlreadyInactive   = errors.New("member is already inactive")
	ErrNameTooLong       = errors.New("member name cannot exceed 100 characters")
)

// Member is a gym member on the books.
type Member struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	MembershipType string `json:"membershipType"`
	Status         string `json:"status"`
	JoinDate       string `json:"joinDate"`
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(m.Email) > MaxEmailLength || !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if !contains(MembershipTypes, m.MembershipType) {
		return ErrInvalidMembership
	}
	if !contains(Statuses, m.Status) {
		return ErrInvalidStatus
	}
	if m.JoinDate != "" {
		if _, err := time.Parse(DateLayout, m.JoinDate); err != nil {
			return ErrInvalidJoinDate
		}
	}
	return nil
}

// Prepare fills defaults for a newly added member.
// POST: Status defaults to pending, JoinDate defaults to now's date
func (m *Member) Prepare(now time.Time) {
	if m.Status == "" {
		m.Status = StatusPending
	}
	if m.MembershipType == "" {
		m.MembershipType = MembershipBasic
	}
	if m.JoinDate == "" {
		m.JoinDate = now.Format(DateLayout)
	}
}

// GetID returns the member id.
func (m *Member) GetID() string { return m.ID }

// SetID assigns the member id.
func (m *Member) SetID(id string) { m.ID = id }

// GetStatus returns the member status.
func (m *Member) GetStatus() string { return m.Status }

// SetStatus assigns the member status.
func (m *Member) SetStatus(status string) { m.Status = status }

// IsActive returns true if the member is currently active.
// INVARIANT: Status field is not mutated
func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// Activate sets the member status to active.
// PRE: Member is not already active
// POST: Status is set to active
func (m *Member) Activate() error {
	if m.Status == StatusActive {
		return ErrAlreadyActive
	}
	m.Status = StatusActive
	return nil
}

// Deactivate sets the member status to inactive.
// PRE: Member is not already inactive
// POST: Status is set to inactive
func (m *Member) Deactivate() error {
	if m.Status == StatusInactive {
		return ErrAlreadyInactive
	}
	m.Status = StatusInactive
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Samples returns the starter roster.
func Samples() []Member {
	return []Member{
		{ID: "1", Name: "John Doe", Email: "john.doe@example.com", MembershipType: MembershipPremium, Status: StatusActive, JoinDate: "2023-01-15"},
		{ID: "2", Name: "Jane Smith", Email: "jane.smith@example.com", MembershipType: MembershipStandard, Status: StatusActive, JoinDate: "2023-02-20"},
		{ID: "3", Name: "Mike Johnson", Email: "mike.johnson@example.com", MembershipType: MembershipBasic, Status: StatusInactive, JoinDate: "2022-10-05"},
		{ID: "4", Name: "Sarah Williams", Email: "sarah.williams@example.com", MembershipType: MembershipPremium, Status: StatusActive, JoinDate: "2023-03-10"},
		{ID: "5", Name: "David Brown", Email: "david.brown@example.com", MembershipType: MembershipStandard, Status: StatusPending, JoinDate: "2023-04-25"},
	}
}
