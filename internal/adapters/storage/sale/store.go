package sale

import (
	"context"
	"time"

	domain "gymdesk/internal/domain/sale"
)

// Store persists completed sales.
type Store interface {
	// Checkout records s and decrements stock for its items in one transaction.
	Checkout(ctx context.Context, s domain.Sale) error
	GetByID(ctx context.Context, id string) (domain.Sale, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Sale, error)
}

// ListFilter narrows List to sales at or after Since (zero means all).
type ListFilter struct {
	Since time.Time
	Limit int
}
