package profile

import (
	"context"

	domain "gymdesk/internal/domain/profile"
)

// Store persists profiles, keyed by account id.
type Store interface {
	GetByID(ctx context.Context, accountID string) (domain.Profile, error)
	Save(ctx context.Context, value domain.Profile) error
}
