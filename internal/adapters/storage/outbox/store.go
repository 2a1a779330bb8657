package outbox

import (
	"context"

	domain "gymdesk/internal/domain/outbox"
)

// Store persists deferred external calls.
type Store interface {
	// GetByID returns an error wrapping storage.ErrNotFound when missing.
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, e domain.Entry) error
	// ListPending returns pending and retrying entries, oldest first.
	// PRE: limit > 0
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)
	// List returns entries in any state, newest first; an empty status means all.
	List(ctx context.Context, status string, limit int) ([]domain.Entry, error)
	// CountByStatus returns status -> number of entries.
	CountByStatus(ctx context.Context) (map[string]int, error)
}

var _ Store = (*SQLiteStore)(nil)
