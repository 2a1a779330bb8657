package cleaning

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the layout of LastCleaned and NextDue.
const DateLayout = "2006-01-02"

// Max length constants for user-editable fields.
const (
	MaxAreaLength  = 100
	MaxNotesLength = 4000
)

// Frequency constants
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Status constants
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusOverdue   = "overdue"
)

// Statuses lists the valid task statuses.
var Statuses = []string{StatusCompleted, StatusPending, StatusOverdue}

// Domain errors
var (
	ErrEmptyArea        = errors.New("area cannot be empty")
	ErrEmptyAssignee    = errors.New("assigned to cannot be empty")
	ErrInvalidFrequency = errors.New("frequency must be 'daily', 'weekly', or 'monthly'")
	ErrInvalidStatus    = errors.New("status must be 'completed', 'pending', or 'overdue'")
	ErrInvalidDate      = errors.New("dates must be YYYY-MM-DD")
	ErrAreaTooLong      = errors.New("area cannot exceed 100 characters")
	ErrNotesTooLong     = errors.New("notes cannot exceed 4000 characters")
)

// Task is a recurring cleaning assignment for an area of the gym.
type Task struct {
	ID          string `json:"id"`
	Area        string `json:"area"`
	AssignedTo  string `json:"assignedTo"`
	Frequency   string `json:"frequency"`
	LastCleaned string `json:"lastCleaned"`
	NextDue     string `json:"nextDue"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

// Validate checks if the Task has valid data.
// PRE: Task struct is populated
// POST: Returns error if validation fails, nil otherwise
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Area) == "" {
		return ErrEmptyArea
	}
	if len(t.Area) > MaxAreaLength {
		return ErrAreaTooLong
	}
	if strings.TrimSpace(t.AssignedTo) == "" {
		return ErrEmptyAssignee
	}
	if len(t.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if t.Frequency != FrequencyDaily && t.Frequency != FrequencyWeekly && t.Frequency != FrequencyMonthly {
		return ErrInvalidFrequency
	}
	if t.Status != StatusCompleted && t.Status != StatusPending && t.Status != StatusOverdue {
		return ErrInvalidStatus
	}
	for _, d := range []string{t.LastCleaned, t.NextDue} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

// GetID returns the task id.
func (t *Task) GetID() string { return t.ID }

// SetID assigns the task id.
func (t *Task) SetID(id string) { t.ID = id }

// GetStatus returns the task status.
func (t *Task) GetStatus() string { return t.Status }

// SetStatus assigns the task status.
func (t *Task) SetStatus(status string) { t.Status = status }

// NextDueDate returns the day the task is next due after being cleaned on from.
// Monthly keeps the day of month, clamped to the last day of a shorter month.
// PRE: frequency is one of the Frequency constants
// POST: Returns a date strictly after from
func NextDueDate(from time.Time, frequency string) (time.Time, error) {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	switch frequency {
	case FrequencyDaily:
		return day.AddDate(0, 0, 1), nil
	case FrequencyWeekly:
		return day.AddDate(0, 0, 7), nil
	case FrequencyMonthly:
		firstOfTarget := time.Date(day.Year(), day.Month()+1, 1, 0, 0, 0, 0, day.Location())
		lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
		d := day.Day()
		if d > lastDay {
			d = lastDay
		}
		return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, day.Location()), nil
	default:
		return time.Time{}, ErrInvalidFrequency
	}
}

// Complete records that the task was cleaned on now.
// PRE: Frequency is valid
// POST: Status=completed, LastCleaned=now's date, NextDue recomputed from LastCleaned
func (t *Task) Complete(now time.Time) error {
	next, err := NextDueDate(now, t.Frequency)
	if err != nil {
		return err
	}
	t.Status = StatusCompleted
	t.LastCleaned = now.Format(DateLayout)
	t.NextDue = next.Format(DateLayout)
	return nil
}

// IsOverdue returns true when NextDue is before today.
// INVARIANT: Task fields are not mutated
func (t Task) IsOverdue(now time.Time) bool {
	if t.NextDue == "" {
		return false
	}
	due, err := time.ParseInLocation(DateLayout, t.NextDue, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}
