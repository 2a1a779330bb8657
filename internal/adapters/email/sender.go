package email

import (
	"context"
	"fmt"
	"time"

	"gymdesk/internal/adapters/markdown"
	domain "gymdesk/internal/domain/email"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	Kind    string // receipt, welcome; used for provider tags and logs
	To      []string
	From    string // empty means the sender's default
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers rendered email.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// Render turns a composed message into a request ready for a Sender.
// PRE: msg has been validated
func Render(msg domain.Message, replyTo string) (SendRequest, error) {
	body, err := markdown.ToHTML(msg.Markdown)
	if err != nil {
		return SendRequest{}, fmt.Errorf("render %s email: %w", msg.Kind, err)
	}
	return SendRequest{
		Kind:    msg.Kind,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    body,
		ReplyTo: replyTo,
	}, nil
}
