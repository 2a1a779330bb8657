package settings

import (
	"context"
	"time"
)

// Store is a small key-value table for singleton settings.
type Store interface {
	// Get returns the value and its last update time, or an error wrapping storage.ErrNotFound.
	Get(ctx context.Context, key string) (string, time.Time, error)
	Put(ctx context.Context, key, value string, at time.Time) error
}
