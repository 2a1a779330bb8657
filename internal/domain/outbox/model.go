package outbox

import (
	"errors"
	"time"
)

// Entry lifecycle: pending -> retrying -> done | failed. Admins may abandon any open entry.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// Deferred side effects the desk knows how to replay.
const (
	ActionPartnerRegistration = "partner_registration"
	ActionEmail               = "email"
)

const DefaultMaxAttempts = 5

// maxShift keeps the backoff multiplier from overflowing a Duration.
const maxShift = 30

var (
	ErrEmptyActionType = errors.New("outbox: action type is required")
	ErrEmptyPayload    = errors.New("outbox: payload is required")
	ErrMissingCreated  = errors.New("outbox: creation time is required")
	ErrTerminal        = errors.New("outbox: entry is done or abandoned")
)

// Entry is one side effect that did not succeed inline and waits for a replay.
type Entry struct {
	ID              string    `json:"id"`
	ActionType      string    `json:"actionType"`
	Payload         string    `json:"payload"`
	Status          string    `json:"status"`
	Attempts        int       `json:"attempts"`
	MaxAttempts     int       `json:"maxAttempts"`
	LastAttemptedAt time.Time `json:"lastAttemptedAt"`
	CreatedAt       time.Time `json:"createdAt"`
	ExternalID      string    `json:"externalId"`
	ErrorMessage    string    `json:"errorMessage"`
}

// New queues payload for actionType.
// POST: Status=pending, Attempts=0, MaxAttempts=DefaultMaxAttempts
func New(id, actionType, payload string, now time.Time) Entry {
	return Entry{
		ID:          id,
		ActionType:  actionType,
		Payload:     payload,
		Status:      StatusPending,
		MaxAttempts: DefaultMaxAttempts,
		CreatedAt:   now,
	}
}

// Validate reports missing fields and fills in MaxAttempts when unset.
func (e *Entry) Validate() error {
	switch {
	case e.ActionType == "":
		return ErrEmptyActionType
	case e.Payload == "":
		return ErrEmptyPayload
	case e.CreatedAt.IsZero():
		return ErrMissingCreated
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	return nil
}

func (e *Entry) open() bool {
	return e.Status != StatusDone && e.Status != StatusAbandoned
}

func (e *Entry) exhausted() bool { return e.Attempts >= e.MaxAttempts }

// CanRetry reports whether the background worker may still attempt the entry.
func (e *Entry) CanRetry() bool {
	return e.open() && !e.exhausted()
}

// IsTerminal is true once nothing will attempt the entry again without an admin.
func (e *Entry) IsTerminal() bool {
	return !e.open() || (e.Status == StatusFailed && e.exhausted())
}

// Reopen prepares the entry for an admin-triggered attempt.
// POST: an exhausted entry gets exactly one more attempt
func (e *Entry) Reopen() error {
	if !e.open() {
		return ErrTerminal
	}
	if e.exhausted() {
		e.MaxAttempts = e.Attempts + 1
	}
	return nil
}

// NextRetryDelay doubles base for every attempt so far and caps the result at ceiling.
func (e *Entry) NextRetryDelay(base, ceiling time.Duration) time.Duration {
	if e.Attempts >= maxShift {
		return ceiling
	}
	d := base << e.Attempts
	if d <= 0 || d > ceiling {
		return ceiling
	}
	return d
}

// DueAt is CreatedAt for a fresh entry, otherwise the last attempt plus NextRetryDelay.
func (e *Entry) DueAt(base, ceiling time.Duration) time.Time {
	if e.LastAttemptedAt.IsZero() {
		return e.CreatedAt
	}
	return e.LastAttemptedAt.Add(e.NextRetryDelay(base, ceiling))
}

// MarkAttempt counts an attempt starting at now.
func (e *Entry) MarkAttempt(now time.Time) {
	e.Attempts++
	e.LastAttemptedAt = now
	e.Status = StatusRetrying
}

// MarkSuccess closes the entry with the id the remote side reported.
func (e *Entry) MarkSuccess(externalID string) {
	e.Status, e.ExternalID, e.ErrorMessage = StatusDone, externalID, ""
}

// MarkFailed keeps the last error. The entry stays retrying until its attempts run out.
func (e *Entry) MarkFailed(err error) {
	e.ErrorMessage = err.Error()
	if e.exhausted() {
		e.Status = StatusFailed
	}
}

func (e *Entry) MarkAbandoned() { e.Status = StatusAbandoned }
