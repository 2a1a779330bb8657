package cleaning_test

import (
	"testing"
	"time"

	"gymdesk/internal/domain/cleaning"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 14, 30, 0, 0, time.UTC)
}

// TestNextDueDate covers each frequency including month-end clamping.
func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name      string
		from      time.Time
		frequency string
		want      string
	}{
		{"daily", date(2026, 10, 16), cleaning.FrequencyDaily, "2026-10-17"},
		{"daily across month", date(2026, 10, 31), cleaning.FrequencyDaily, "2026-11-01"},
		{"weekly", date(2026, 10, 16), cleaning.FrequencyWeekly, "2026-10-23"},
		{"weekly across year", date(2026, 12, 28), cleaning.FrequencyWeekly, "2027-01-04"},
		{"monthly", date(2026, 10, 16), cleaning.FrequencyMonthly, "2026-11-16"},
		{"monthly december", date(2026, 12, 15), cleaning.FrequencyMonthly, "2027-01-15"},
		{"monthly clamps jan 31", date(2026, 1, 31), cleaning.FrequencyMonthly, "2026-02-28"},
		{"monthly clamps leap year", date(2028, 1, 30), cleaning.FrequencyMonthly, "2028-02-29"},
		{"monthly clamps oct 31", date(2026, 10, 31), cleaning.FrequencyMonthly, "2026-11-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleaning.NextDueDate(tt.from, tt.frequency)
			if err != nil {
				t.Fatalf("NextDueDate: %v", err)
			}
			if got.Format(cleaning.DateLayout) != tt.want {
				t.Errorf("got %s, want %s", got.Format(cleaning.DateLayout), tt.want)
			}
		})
	}

	if _, err := cleaning.NextDueDate(date(2026, 1, 1), "hourly"); err != cleaning.ErrInvalidFrequency {
		t.Errorf("got %v, want ErrInvalidFrequency", err)
	}
}

// TestComplete sets lastCleaned to today and recomputes nextDue.
func TestComplete(t *testing.T) {
	task := cleaning.Task{
		Area:        "Locker Rooms",
		AssignedTo:  "Maria",
		Frequency:   cleaning.FrequencyWeekly,
		LastCleaned: "2026-09-01",
		NextDue:     "2026-09-08",
		Status:      cleaning.StatusOverdue,
	}
	if err := task.Complete(date(2026, 10, 16)); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if task.Status != cleaning.StatusCompleted {
		t.Errorf("status = %s, want completed", task.Status)
	}
	if task.LastCleaned != "2026-10-16" || task.NextDue != "2026-10-23" {
		t.Errorf("got lastCleaned=%s nextDue=%s", task.LastCleaned, task.NextDue)
	}
}

// TestIsOverdue compares against the start of today.
func TestIsOverdue(t *testing.T) {
	now := date(2026, 10, 16)
	tests := []struct {
		nextDue string
		want    bool
	}{
		{"2026-10-15", true},
		{"2026-10-16", false},
		{"2026-10-17", false},
		{"", false},
	}
	for _, tt := range tests {
		task := cleaning.Task{NextDue: tt.nextDue}
		if got := task.IsOverdue(now); got != tt.want {
			t.Errorf("IsOverdue(%q) = %v, want %v", tt.nextDue, got, tt.want)
		}
	}
}

// TestTaskValidation tests validation of Task.
func TestTaskValidation(t *testing.T) {
	base := cleaning.Task{Area: "Yoga Studio", AssignedTo: "Sam", Frequency: cleaning.FrequencyDaily, Status: cleaning.StatusPending}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	bad := base
	bad.Frequency = "yearly"
	if err := bad.Validate(); err != cleaning.ErrInvalidFrequency {
		t.Errorf("got %v, want ErrInvalidFrequency", err)
	}

	bad = base
	bad.Area = ""
	if err := bad.Validate(); err != cleaning.ErrEmptyArea {
		t.Errorf("got %v, want ErrEmptyArea", err)
	}

	bad = base
	bad.NextDue = "soon"
	if err := bad.Validate(); err != cleaning.ErrInvalidDate {
		t.Errorf("got %v, want ErrInvalidDate", err)
	}
}
