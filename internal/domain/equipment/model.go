package equipment

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the layout of LastMaintenance.
const DateLayout = "2006-01-02"

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxNotesLength = 4000
)

// Status constants
const (
	StatusOperational = "operational"
	StatusMaintenance = "maintenance"
	StatusOutOfOrder  = "out-of-order"
)

// Statuses lists the valid equipment statuses.
var Statuses = []string{StatusOperational, StatusMaintenance, StatusOutOfOrder}

// Domain errors
var (
	ErrEmptyName     = errors.New("equipment name cannot be empty")
	ErrInvalidStatus = errors.New("status must be 'operational', 'maintenance', or 'out-of-order'")
	ErrInvalidDate   = errors.New("last maintenance must be YYYY-MM-DD")
	ErrNameTooLong   = errors.New("equipment name cannot exceed 100 characters")
	ErrNotesTooLong  = errors.New("notes cannot exceed 4000 characters")
)

// Unit is a single piece of gym equipment.
type Unit struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	Location        string `json:"location"`
	Status          string `json:"status"`
	LastMaintenance string `json:"lastMaintenance"`
	Notes           string `json:"notes"`
}

// Validate checks if the Unit has valid data.
// PRE: Unit struct is populated
// POST: Returns error if validation fails, nil otherwise
func (u *Unit) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if len(u.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(u.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if !isValidStatus(u.Status) {
		return ErrInvalidStatus
	}
	if u.LastMaintenance != "" {
		if _, err := time.Parse(DateLayout, u.LastMaintenance); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

// GetID returns the unit id.
func (u *Unit) GetID() string { return u.ID }

// SetID assigns the unit id.
func (u *Unit) SetID(id string) { u.ID = id }

// GetStatus returns the unit status.
func (u *Unit) GetStatus() string { return u.Status }

// SetStatus assigns the unit status.
func (u *Unit) SetStatus(status string) { u.Status = status }

// NeedsAttention returns true when the unit is not operational.
// INVARIANT: Unit fields are not mutated
func (u Unit) NeedsAttention() bool {
	return u.Status != StatusOperational
}

// ReturnToService marks the unit operational after maintenance on the given day.
// PRE: Unit was under maintenance or out of order
// POST: Status is operational, LastMaintenance is day
func (u *Unit) ReturnToService(day time.Time) {
	if u.Status != StatusOperational {
		u.LastMaintenance = day.Format(DateLayout)
	}
	u.Status = StatusOperational
}

func isValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}
