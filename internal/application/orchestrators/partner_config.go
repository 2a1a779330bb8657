package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"gymdesk/internal/domain/audit"
	"gymdesk/internal/domain/partnerconfig"
)

// PartnerConfigInput is a settings update. A nil APIKey keeps the stored key.
type PartnerConfigInput struct {
	APIKey  *string `json:"apiKey"`
	VenueID string  `json:"venueId"`
	Enabled bool    `json:"isEnabled"`
}

// PartnerConfigDeps holds dependencies for SavePartnerConfig.
type PartnerConfigDeps struct {
	Repo  partnerconfig.Repository
	Audit AuditRecorder
}

// ExecuteSavePartnerConfig replaces the booking-partner settings.
// POST: the stored object is overwritten as a whole; the returned view never carries the key
func ExecuteSavePartnerConfig(ctx context.Context, actor Actor, input PartnerConfigInput, deps PartnerConfigDeps) (partnerconfig.View, error) {
	current, err := deps.Repo.Load(ctx)
	if err != nil {
		return partnerconfig.View{}, fmt.Errorf("load partner config: %w", err)
	}
	next := partnerconfig.Settings{APIKey: current.APIKey, VenueID: input.VenueID, Enabled: input.Enabled}
	if input.APIKey != nil {
		next.APIKey = *input.APIKey
	}
	if err := next.Validate(); err != nil {
		return partnerconfig.View{}, err
	}
	if err := deps.Repo.Save(ctx, next); err != nil {
		return partnerconfig.View{}, fmt.Errorf("save partner config: %w", err)
	}

	record(ctx, deps.Audit, audit.NewEvent(actor, audit.CategoryPartner, audit.ActionUpdate).
		WithResource("setting", partnerconfig.StorageKey).
		WithDescription(fmt.Sprintf("enabled=%t complete=%t", next.Enabled, next.IsComplete())))
	slog.Info("partner_event", "event", "config_saved", "enabled", next.Enabled, "complete", next.IsComplete())
	return next.ToView(), nil
}
