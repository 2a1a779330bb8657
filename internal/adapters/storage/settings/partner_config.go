package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/domain/partnerconfig"
)

// PartnerConfigRepository stores the booking-partner settings as JSON under a fixed key.
type PartnerConfigRepository struct {
	store Store
	now   func() time.Time
}

var _ partnerconfig.Repository = (*PartnerConfigRepository)(nil)

// NewPartnerConfigRepository wraps a settings store.
func NewPartnerConfigRepository(store Store) *PartnerConfigRepository {
	return &PartnerConfigRepository{store: store, now: time.Now}
}

// Load returns the saved settings, or the defaults when nothing was saved yet.
func (r *PartnerConfigRepository) Load(ctx context.Context) (partnerconfig.Settings, error) {
	raw, _, err := r.store.Get(ctx, partnerconfig.StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return partnerconfig.Default(), nil
	}
	if err != nil {
		return partnerconfig.Settings{}, fmt.Errorf("load partner config: %w", err)
	}
	var s partnerconfig.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return partnerconfig.Settings{}, fmt.Errorf("decode partner config: %w", err)
	}
	return s, nil
}

// Save replaces the stored settings wholesale.
// PRE: s has been validated
func (r *PartnerConfigRepository) Save(ctx context.Context, s partnerconfig.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode partner config: %w", err)
	}
	return r.store.Put(ctx, partnerconfig.StorageKey, string(raw), r.now())
}
