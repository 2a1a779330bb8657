package member

import (
	"context"

	domain "gymdesk/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Member, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}
