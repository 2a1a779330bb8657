package audit

import (
	"context"
	"time"

	domain "gymdesk/internal/domain/audit"
)

// Store persists audit events.
type Store interface {
	Save(ctx context.Context, event domain.Event) error
	// List returns events matching filter, newest first.
	// PRE: limit > 0
	List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error)
}

// Filter narrows List. Zero fields are ignored.
type Filter struct {
	Category domain.Category
	Action   domain.Action
	ActorID  string
	Since    time.Time
}

var _ Store = (*SQLiteStore)(nil)
