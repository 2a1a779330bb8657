package cleaning

import (
	"context"

	domain "gymdesk/internal/domain/cleaning"
)

// Store persists cleaning tasks.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Task, error)
	Save(ctx context.Context, value domain.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Task, error)
}
