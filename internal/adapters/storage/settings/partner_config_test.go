package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/adapters/storage/settings"
	"gymdesk/internal/adapters/storage/storetest"
	"gymdesk/internal/domain/partnerconfig"
)

// Both repositories must behave identically.
func repositories(t *testing.T) map[string]partnerconfig.Repository {
	return map[string]partnerconfig.Repository{
		"sqlite": settings.NewPartnerConfigRepository(settings.NewSQLiteStore(storetest.Open(t))),
		"memory": settings.NewMemoryPartnerConfig(nil),
	}
}

func TestPartnerConfig_DefaultsOnFirstRead(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			got, err := repo.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, partnerconfig.Default(), got)
			assert.False(t, got.IsComplete())
		})
	}
}

func TestPartnerConfig_SaveThenLoad(t *testing.T) {
	inputs := []partnerconfig.Settings{
		{APIKey: "key-123", VenueID: "venue-9", Enabled: true},
		{APIKey: "", VenueID: "venue-9", Enabled: false},
		{APIKey: "k", VenueID: "", Enabled: true},
	}
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, in := range inputs {
				require.NoError(t, repo.Save(ctx, in))
				got, err := repo.Load(ctx)
				require.NoError(t, err)
				assert.Equal(t, in, got)
			}
		})
	}
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := settings.NewSQLiteStore(storetest.Open(t))
	_, _, err := s.Get(context.Background(), "nope")
	assert.Error(t, err)
}
