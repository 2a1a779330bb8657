package partnerconfig

import (
	"context"
	"errors"
	"strings"
)

// StorageKey is the fixed key the settings object is persisted under.
const StorageKey = "classpass_config"

// Max length constants for user-editable fields.
const (
	MaxAPIKeyLength  = 256
	MaxVenueIDLength = 128
)

// Domain errors
var (
	ErrAPIKeyTooLong  = errors.New("api key cannot exceed 256 characters")
	ErrVenueIDTooLong = errors.New("venue id cannot exceed 128 characters")
)

// Settings holds the booking-partner integration configuration.
type Settings struct {
	APIKey  string `json:"apiKey"`
	VenueID string `json:"venueId"`
	Enabled bool   `json:"isEnabled"`
}

// Repository loads and saves the settings object as a whole.
type Repository interface {
	// Load returns the stored settings, or Default() when nothing is stored yet.
	Load(ctx context.Context) (Settings, error)
	// Save overwrites the stored settings.
	Save(ctx context.Context, s Settings) error
}

// Default returns the settings used before anything has been saved.
// POST: integration disabled, no credentials
func Default() Settings {
	return Settings{}
}

// Validate checks field lengths.
// PRE: Settings struct is populated
// POST: Returns error if a field is too long, nil otherwise
func (s *Settings) Validate() error {
	if len(s.APIKey) > MaxAPIKeyLength {
		return ErrAPIKeyTooLong
	}
	if len(s.VenueID) > MaxVenueIDLength {
		return ErrVenueIDTooLong
	}
	return nil
}

// IsComplete reports whether the integration is enabled and has both credentials.
// INVARIANT: Settings fields are not mutated
func (s Settings) IsComplete() bool {
	return s.Enabled && strings.TrimSpace(s.APIKey) != "" && strings.TrimSpace(s.VenueID) != ""
}

// View is the externally visible form of Settings. The key itself is never echoed back.
type View struct {
	APIKeyPresent bool   `json:"apiKeyPresent"`
	VenueID       string `json:"venueId"`
	Enabled       bool   `json:"isEnabled"`
	Complete      bool   `json:"complete"`
}

// ToView converts settings to their public form.
// INVARIANT: Settings fields are not mutated
func (s Settings) ToView() View {
	return View{
		APIKeyPresent: strings.TrimSpace(s.APIKey) != "",
		VenueID:       s.VenueID,
		Enabled:       s.Enabled,
		Complete:      s.IsComplete(),
	}
}
