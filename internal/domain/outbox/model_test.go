package outbox_test

import (
	"errors"
	"testing"
	"time"

	"gymdesk/internal/domain/outbox"
)

var t0 = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

func TestEntryLifecycle(t *testing.T) {
	e := outbox.New("e1", outbox.ActionPartnerRegistration, `{"classId":"c1"}`, t0)
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !e.CanRetry() || e.IsTerminal() {
		t.Fatalf("new entry should be retryable: %+v", e)
	}

	for i := 0; i < outbox.DefaultMaxAttempts; i++ {
		e.MarkAttempt(t0.Add(time.Duration(i) * time.Minute))
		e.MarkFailed(errors.New("remote down"))
	}
	if e.Status != outbox.StatusFailed || !e.IsTerminal() || e.CanRetry() {
		t.Errorf("entry should be terminally failed: %+v", e)
	}
	if e.ErrorMessage != "remote down" {
		t.Errorf("error message = %q", e.ErrorMessage)
	}
}

func TestMarkSuccess(t *testing.T) {
	e := outbox.New("e1", outbox.ActionEmail, `{}`, t0)
	e.MarkAttempt(t0)
	e.MarkFailed(errors.New("timeout"))
	if e.Status != outbox.StatusRetrying {
		t.Fatalf("status = %s, want retrying", e.Status)
	}
	e.MarkAttempt(t0.Add(time.Minute))
	e.MarkSuccess("msg-1")
	if e.Status != outbox.StatusDone || e.ExternalID != "msg-1" || e.ErrorMessage != "" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if !e.IsTerminal() {
		t.Error("done entry should be terminal")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		entry outbox.Entry
		want  error
	}{
		{"missing action", outbox.Entry{Payload: "{}", CreatedAt: t0}, outbox.ErrEmptyActionType},
		{"missing payload", outbox.Entry{ActionType: outbox.ActionEmail, CreatedAt: t0}, outbox.ErrEmptyPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.entry.Validate(); err != tt.want {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	e := outbox.Entry{ActionType: outbox.ActionEmail, Payload: "{}", CreatedAt: t0}
	if err := e.Validate(); err != nil || e.MaxAttempts != outbox.DefaultMaxAttempts {
		t.Errorf("expected defaulted max attempts, got %d (%v)", e.MaxAttempts, err)
	}
}

func TestBackoff(t *testing.T) {
	base, max := 30*time.Second, time.Hour
	e := outbox.New("e1", outbox.ActionEmail, "{}", t0)
	if !e.DueAt(base, max).Equal(t0) {
		t.Errorf("fresh entry should be due at creation")
	}
	e.MarkAttempt(t0)
	if got := e.NextRetryDelay(base, max); got != time.Minute {
		t.Errorf("delay after 1 attempt = %s, want 1m", got)
	}
	if !e.DueAt(base, max).Equal(t0.Add(time.Minute)) {
		t.Errorf("due at = %s", e.DueAt(base, max))
	}
	e.Attempts = 20
	if got := e.NextRetryDelay(base, max); got != max {
		t.Errorf("delay should cap at %s, got %s", max, got)
	}
}
