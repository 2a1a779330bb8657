package orchestrators

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"gymdesk/internal/domain/product"
)

// ProductStoreForSeed defines the store interface needed by SeedCatalog.
type ProductStoreForSeed interface {
	Save(ctx context.Context, p product.Product) error
	Count(ctx context.Context) (int, error)
}

// ExecuteSeedCatalog stores the default product catalog into an empty store.
// POST: Returns the number of products created; 0 when any product already exists
func ExecuteSeedCatalog(ctx context.Context, store ProductStoreForSeed) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	seeds := product.Seeds()
	for _, p := range seeds {
		p.ID = uuid.NewString()
		if err := store.Save(ctx, p); err != nil {
			return 0, err
		}
	}
	slog.Info("seed_event", "event", "catalog_seeded", "products", len(seeds))
	return len(seeds), nil
}
