package email

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"

	domain "gymdesk/internal/domain/email"
)

// ResendSender delivers receipts and account mail through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	now    func() time.Time
}

// NewResendSender returns a sender that uses from when a request leaves it empty.
// PRE: apiKey is a valid Resend API key
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from, now: time.Now}
}

// Send hands one message to Resend, tagged with its kind.
// POST: Returns the provider message id once Resend accepts the message
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if len(req.To) == 0 {
		return SendResult{}, domain.ErrNoRecipient
	}
	params := &resend.SendEmailRequest{
		From:    cmp.Or(req.From, s.from),
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		ReplyTo: req.ReplyTo,
	}
	if req.Kind != "" {
		params.Tags = []resend.Tag{{Name: "kind", Value: req.Kind}}
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Error("email_event", "event", "send_failed", "provider", "resend", "kind", req.Kind, "error", err)
		return SendResult{}, fmt.Errorf("resend %s email: %w", cmp.Or(req.Kind, "untyped"), err)
	}
	slog.Info("email_event", "event", "sent", "provider", "resend", "kind", req.Kind, "message_id", sent.Id)
	return SendResult{MessageID: sent.Id, SentAt: s.now()}, nil
}
