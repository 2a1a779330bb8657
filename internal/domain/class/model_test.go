package class_test

import (
	"strings"
	"testing"

	"gymdesk/internal/domain/class"
)

func validClass() class.Class {
	return class.Class{
		ID:         "c1",
		Name:       "Spin",
		Instructor: "Jane Smith",
		Date:       "2026-10-16",
		Time:       "07:30",
		Duration:   45,
		Capacity:   12,
		Status:     class.StatusScheduled,
	}
}

// TestClassValidation tests validation of Class.
func TestClassValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *class.Class)
		wantErr error
	}{
		{"valid", func(c *class.Class) {}, nil},
		{"missing name", func(c *class.Class) { c.Name = "" }, class.ErrMissingRequired},
		{"missing instructor", func(c *class.Class) { c.Instructor = " " }, class.ErrMissingRequired},
		{"missing date", func(c *class.Class) { c.Date = "" }, class.ErrMissingRequired},
		{"missing time", func(c *class.Class) { c.Time = "" }, class.ErrMissingRequired},
		{"bad date", func(c *class.Class) { c.Date = "16/10/2026" }, class.ErrInvalidDate},
		{"bad time", func(c *class.Class) { c.Time = "7.30am" }, class.ErrInvalidTime},
		{"zero duration", func(c *class.Class) { c.Duration = 0 }, class.ErrInvalidDuration},
		{"zero capacity", func(c *class.Class) { c.Capacity = 0 }, class.ErrInvalidCapacity},
		{"negative enrolled", func(c *class.Class) { c.Enrolled = -1 }, class.ErrInvalidEnrolled},
		{"bad status", func(c *class.Class) { c.Status = "done" }, class.ErrInvalidStatus},
		{"long name", func(c *class.Class) { c.Name = strings.Repeat("n", class.MaxNameLength+1) }, class.ErrNameTooLong},
		{"long description", func(c *class.Class) { c.Description = strings.Repeat("d", class.MaxDescriptionLength+1) }, class.ErrDescriptionTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validClass()
			tt.mutate(&c)
			if err := c.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestApplyDefaults checks the zero-value defaults and that set values survive.
func TestApplyDefaults(t *testing.T) {
	c := class.Class{Name: "Yoga"}
	if err := c.ApplyDefaults(); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}
	if c.Duration != 60 || c.Capacity != 15 || c.Enrolled != 0 || c.Status != class.StatusScheduled {
		t.Errorf("unexpected defaults: %+v", c)
	}

	c = class.Class{Duration: 90, Capacity: 8}
	if err := c.ApplyDefaults(); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}
	if c.Duration != 90 || c.Capacity != 8 {
		t.Errorf("defaults overwrote set values: %+v", c)
	}
}

// TestSpotsLeft includes partner bookings and never goes negative.
func TestSpotsLeft(t *testing.T) {
	c := validClass()
	c.Enrolled = 5
	if got := c.SpotsLeft(3); got != 4 {
		t.Errorf("SpotsLeft(3) = %d, want 4", got)
	}
	if got := c.SpotsLeft(20); got != 0 {
		t.Errorf("SpotsLeft(20) = %d, want 0", got)
	}
}
