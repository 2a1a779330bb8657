package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	emailAdapter "gymdesk/internal/adapters/email"
	"gymdesk/internal/domain/email"
	"gymdesk/internal/domain/outbox"
)

// OutboxWriter persists outbox entries.
type OutboxWriter interface {
	Save(ctx context.Context, e outbox.Entry) error
}

// Delivery outcomes.
const (
	DeliverySent   = "sent"
	DeliveryQueued = "queued"
)

// Delivery reports what happened to one message.
type Delivery struct {
	Status    string `json:"status"`
	MessageID string `json:"messageId,omitempty"`
	OutboxID  string `json:"outboxId,omitempty"`
}

// Mailer renders messages and hands them to a Sender.
// A failed send is queued as an outbox email action instead of surfacing to the caller.
type Mailer struct {
	Sender  emailAdapter.Sender
	Outbox  OutboxWriter
	ReplyTo string
	Now     func() time.Time
}

// Deliver sends msg or queues it for retry.
// PRE: Sender is set
// POST: Returns DeliverySent with the provider id, or DeliveryQueued with the outbox id
// POST: Returns an error only when the message is invalid or could not be queued
func (m *Mailer) Deliver(ctx context.Context, msg email.Message) (Delivery, error) {
	if err := msg.Validate(); err != nil {
		return Delivery{}, err
	}
	res, err := m.send(ctx, msg)
	if err == nil {
		slog.Info("email_event", "event", "sent", "kind", msg.Kind, "message_id", res.MessageID)
		return Delivery{Status: DeliverySent, MessageID: res.MessageID}, nil
	}
	slog.Warn("email_event", "event", "send_failed", "kind", msg.Kind, "error", err)

	if m.Outbox == nil {
		return Delivery{}, err
	}
	payload, mErr := json.Marshal(msg)
	if mErr != nil {
		return Delivery{}, fmt.Errorf("encode email payload: %w", mErr)
	}
	entry := outbox.New(uuid.NewString(), outbox.ActionEmail, string(payload), clock(m.Now))
	entry.ErrorMessage = err.Error()
	if err := m.Outbox.Save(ctx, entry); err != nil {
		return Delivery{}, fmt.Errorf("queue email: %w", err)
	}
	slog.Info("email_event", "event", "queued", "kind", msg.Kind, "outbox_id", entry.ID)
	return Delivery{Status: DeliveryQueued, OutboxID: entry.ID}, nil
}

func (m *Mailer) send(ctx context.Context, msg email.Message) (emailAdapter.SendResult, error) {
	req, err := emailAdapter.Render(msg, m.ReplyTo)
	if err != nil {
		return emailAdapter.SendResult{}, err
	}
	return m.Sender.Send(ctx, req)
}

// EmailExecutor replays queued email actions.
type EmailExecutor struct {
	Mailer *Mailer
}

// Execute sends the message stored in payload.
// PRE: payload is a JSON-encoded email.Message
// POST: returns the provider message id
// INVARIANT: never re-queues; outbox entry status is managed by the caller
func (e *EmailExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var msg email.Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return "", fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return "", err
	}
	res, err := e.Mailer.send(ctx, msg)
	if err != nil {
		return "", err
	}
	return res.MessageID, nil
}
