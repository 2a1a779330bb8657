package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/domain/class"
	"gymdesk/internal/domain/outbox"
)

// ClassRegistrar publishes a class to the booking partner.
type ClassRegistrar interface {
	RegisterClass(ctx context.Context, c class.Class) (bool, error)
}

// ClassAdder stores a new class and assigns its id.
type ClassAdder interface {
	Add(ctx context.Context, c class.Class) (class.Class, error)
}

// Phase outcomes.
const (
	LocalCreated = "created"

	RemoteSkipped       = "skipped"
	RemoteNotConfigured = "not_configured"
	RemoteRegistered    = "registered"
	RemoteFailed        = "failed"
)

// CreateClassInput carries input for CreateClass.
type CreateClassInput struct {
	Class class.Class
	// SkipPartner keeps the class local only.
	SkipPartner bool
}

// CreateClassResult reports both phases of class creation.
type CreateClassResult struct {
	Class       class.Class `json:"class"`
	Local       string      `json:"local"`
	Remote      string      `json:"remote"`
	RemoteError string      `json:"remoteError,omitempty"`
	OutboxID    string      `json:"outboxId,omitempty"`
}

// CreateClassDeps holds dependencies for CreateClass.
type CreateClassDeps struct {
	Classes ClassAdder
	Partner ClassRegistrar
	Outbox  OutboxWriter
	Now     func() time.Time
}

// ExecuteCreateClass stores a class locally, then registers it with the booking partner.
// PRE: Class passes validation once defaults are applied
// POST: on success Local is "created" whatever the remote outcome
// INVARIANT: a remote failure never removes the local class; it is queued for retry instead
func ExecuteCreateClass(ctx context.Context, input CreateClassInput, deps CreateClassDeps) (CreateClassResult, error) {
	created, err := deps.Classes.Add(ctx, input.Class)
	if err != nil {
		return CreateClassResult{}, err
	}
	res := CreateClassResult{Class: created, Local: LocalCreated, Remote: RemoteSkipped}
	if input.SkipPartner || deps.Partner == nil {
		return res, nil
	}

	ok, err := deps.Partner.RegisterClass(ctx, created)
	switch {
	case err != nil:
		res.Remote = RemoteFailed
		res.RemoteError = err.Error()
		id, qErr := queueRegistration(ctx, deps, created, err)
		if qErr != nil {
			slog.Error("partner_event", "event", "registration_not_queued", "class_id", created.ID, "error", qErr)
		}
		res.OutboxID = id
	case !ok:
		res.Remote = RemoteNotConfigured
	default:
		res.Remote = RemoteRegistered
	}
	slog.Info("partner_event", "event", "class_created", "class_id", created.ID, "remote", res.Remote)
	return res, nil
}

func queueRegistration(ctx context.Context, deps CreateClassDeps, c class.Class, cause error) (string, error) {
	if deps.Outbox == nil {
		return "", errors.New("no outbox configured")
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode class: %w", err)
	}
	entry := outbox.New(uuid.NewString(), outbox.ActionPartnerRegistration, string(payload), clock(deps.Now))
	entry.ErrorMessage = cause.Error()
	if err := deps.Outbox.Save(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// ErrPartnerNotConfigured is returned by a replayed registration while the integration is off.
var ErrPartnerNotConfigured = errors.New("booking partner integration is not configured")

// PartnerRegistrationExecutor replays queued class registrations.
type PartnerRegistrationExecutor struct {
	Partner ClassRegistrar
}

// Execute registers the class stored in payload.
// PRE: payload is a JSON-encoded class.Class
// POST: returns the class id as external id
func (e *PartnerRegistrationExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var c class.Class
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return "", fmt.Errorf("unmarshal payload: %w", err)
	}
	ok, err := e.Partner.RegisterClass(ctx, c)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrPartnerNotConfigured
	}
	return c.ID, nil
}
