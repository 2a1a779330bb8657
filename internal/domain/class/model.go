package class

import (
	"errors"
	"strings"
	"time"

	"github.com/creasty/defaults"
)

// Layouts for the date and time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 2000
)

// Status constants
const (
	StatusScheduled = "scheduled"
	StatusCancelled = "cancelled"
)

// Statuses lists the valid class statuses.
var Statuses = []string{StatusScheduled, StatusCancelled}

// Domain errors
var (
	ErrMissingRequired    = errors.New("name, instructor, date and time are required")
	ErrInvalidDate        = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTime        = errors.New("time must be HH:MM")
	ErrInvalidDuration    = errors.New("duration must be positive")
	ErrInvalidCapacity    = errors.New("capacity must be positive")
	ErrInvalidEnrolled    = errors.New("enrolled cannot be negative")
	ErrInvalidStatus      = errors.New("status must be 'scheduled' or 'cancelled'")
	ErrNameTooLong        = errors.New("class name cannot exceed 100 characters")
	ErrDescriptionTooLong = errors.New("description cannot exceed 2000 characters")
)

// Class is a scheduled session on the timetable.
type Class struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Instructor  string `json:"instructor"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Duration    int    `json:"duration" default:"60"`
	Capacity    int    `json:"capacity" default:"15"`
	Enrolled    int    `json:"enrolled"`
	Description string `json:"description"`
	Status      string `json:"status" default:"scheduled"`
}

// ApplyDefaults fills zero-valued duration, capacity and status.
// POST: Duration=60, Capacity=15, Status=scheduled where previously unset
func (c *Class) ApplyDefaults() error {
	return defaults.Set(c)
}

// Validate checks if the Class has valid data.
// PRE: Class struct is populated
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: name, instructor, date and time are required
func (c *Class) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Instructor) == "" ||
		strings.TrimSpace(c.Date) == "" || strings.TrimSpace(c.Time) == "" {
		return ErrMissingRequired
	}
	if len(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(c.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if _, err := time.Parse(DateLayout, c.Date); err != nil {
		return ErrInvalidDate
	}
	if _, err := time.Parse(TimeLayout, c.Time); err != nil {
		return ErrInvalidTime
	}
	if c.Duration <= 0 {
		return ErrInvalidDuration
	}
	if c.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if c.Enrolled < 0 {
		return ErrInvalidEnrolled
	}
	if c.Status != StatusScheduled && c.Status != StatusCancelled {
		return ErrInvalidStatus
	}
	return nil
}

// GetID returns the class id.
func (c *Class) GetID() string { return c.ID }

// SetID assigns the class id.
func (c *Class) SetID(id string) { c.ID = id }

// GetStatus returns the class status.
func (c *Class) GetStatus() string { return c.Status }

// SetStatus assigns the class status.
func (c *Class) SetStatus(status string) { c.Status = status }

// SpotsLeft returns remaining capacity once partner bookings are counted.
// INVARIANT: Class fields are not mutated
func (c Class) SpotsLeft(partnerBookings int) int {
	left := c.Capacity - c.Enrolled - partnerBookings
	if left < 0 {
		return 0
	}
	return left
}

// Samples returns the starter timetable. Its ids are stable so the booking
// partner can recognise them.
func Samples() []Class {
	return []Class{
		{ID: "1", Name: "Morning Yoga", Instructor: "Jane Smith", Date: "2023-05-20", Time: "08:00", Duration: 60, Capacity: 20, Enrolled: 15,
			Description: "Start your day with a refreshing yoga session focusing on flexibility and mindfulness.", Status: StatusScheduled},
		{ID: "2", Name: "HIIT Training", Instructor: "Mike Johnson", Date: "2023-05-20", Time: "17:30", Duration: 45, Capacity: 15, Enrolled: 8,
			Description: "High-intensity interval training to boost metabolism and improve cardiovascular health.", Status: StatusScheduled},
		{ID: "3", Name: "Pilates", Instructor: "Sarah Brown", Date: "2023-05-21", Time: "10:00", Duration: 50, Capacity: 12, Enrolled: 10,
			Description: "Strengthen your core and improve posture with this comprehensive Pilates class.", Status: StatusScheduled},
		{ID: "4", Name: "Zumba", Instructor: "David Wilson", Date: "2023-05-21", Time: "18:00", Duration: 60, Capacity: 25, Enrolled: 22,
			Description: "Dance your way to fitness with this high-energy Zumba class featuring Latin and international music.", Status: StatusScheduled},
		{ID: "5", Name: "Spin Class", Instructor: "Lisa Chen", Date: "2023-05-22", Time: "07:00", Duration: 45, Capacity: 15, Enrolled: 12,
			Description: "Get your cardio in with this intense indoor cycling session suitable for all fitness levels.", Status: StatusScheduled},
	}
}
