package product

import (
	"context"

	domain "gymdesk/internal/domain/product"
)

// Store persists Product state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Product, error)
	Save(ctx context.Context, value domain.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Product, error)
	Count(ctx context.Context) (int, error)
}
