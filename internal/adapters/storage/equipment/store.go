package equipment

import (
	"context"

	domain "gymdesk/internal/domain/equipment"
)

// Store persists equipment units.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Unit, error)
	Save(ctx context.Context, value domain.Unit) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Unit, error)
}
