package email

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "gymdesk/internal/domain/email"
)

// NoopSender logs and records sends without delivering them.
type NoopSender struct {
	mu   sync.Mutex
	sent []SendRequest
	fail error
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// FailWith makes subsequent sends return err; nil restores success.
func (s *NoopSender) FailWith(err error) {
	s.mu.Lock()
	s.fail = err
	s.mu.Unlock()
}

// Sent returns a copy of every accepted request.
func (s *NoopSender) Sent() []SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SendRequest(nil), s.sent...)
}

// Send records req.
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return SendResult{}, s.fail
	}
	if len(req.To) == 0 {
		return SendResult{}, domain.ErrNoRecipient
	}
	s.sent = append(s.sent, req)
	slog.Info("email_event", "event", "sent", "provider", "noop", "kind", req.Kind)
	return SendResult{MessageID: "noop-" + uuid.NewString(), SentAt: time.Now()}, nil
}
