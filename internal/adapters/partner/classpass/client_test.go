package classpass_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"gymdesk/internal/adapters/partner/classpass"
	"gymdesk/internal/adapters/storage/settings"
	"gymdesk/internal/domain/booking"
	"gymdesk/internal/domain/class"
	"gymdesk/internal/domain/partnerconfig"
)

var fixed = time.Date(2026, 10, 16, 7, 30, 0, 0, time.UTC)

func newClient(t *testing.T, s *partnerconfig.Settings) (*classpass.Client, *settings.MemoryPartnerConfig) {
	repo := settings.NewMemoryPartnerConfig(s)
	return classpass.New(repo, zaptest.NewLogger(t), classpass.WithClock(func() time.Time { return fixed })), repo
}

func enabled() *partnerconfig.Settings {
	return &partnerconfig.Settings{APIKey: "k", VenueID: "v", Enabled: true}
}

func TestFetchBookings_MockCounts(t *testing.T) {
	client, _ := newClient(t, enabled())
	idPattern := regexp.MustCompile(`^cp-[0-9a-f]{7}$`)

	for id, want := range map[string]int{"1": 3, "2": 0, "3": 2, "4": 1, "99": 0} {
		records, err := client.FetchBookings(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, records, want, "class %s", id)
		for i, r := range records {
			assert.Regexp(t, idPattern, r.ID)
			assert.Equal(t, id, r.ItemID)
			assert.Equal(t, booking.StatusConfirmed, r.Status)
			assert.Equal(t, fixed, r.Timestamp)
			assert.Equal(t, "ClassPass User "+string(rune('1'+i)), r.UserName)
		}
	}
}

func TestFetchBookings_IncompleteConfigIsEmpty(t *testing.T) {
	cases := map[string]*partnerconfig.Settings{
		"never saved": nil,
		"disabled":    {APIKey: "k", VenueID: "v"},
		"no key":      {VenueID: "v", Enabled: true},
		"no venue":    {APIKey: "k", Enabled: true},
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			client, _ := newClient(t, s)
			for _, id := range []string{"1", "3", "x"} {
				records, err := client.FetchBookings(context.Background(), id)
				require.NoError(t, err)
				assert.Empty(t, records)
			}
		})
	}
}

func TestRegisterClass(t *testing.T) {
	cl := class.Class{ID: "c1", Name: "Spin", Instructor: "Ana", Date: "2026-10-17", Time: "07:00", Duration: 45, Capacity: 12}

	client, repo := newClient(t, nil)
	ok, err := client.RegisterClass(context.Background(), cl)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Save(context.Background(), *enabled()))
	ok, err = client.RegisterClass(context.Background(), cl)
	require.NoError(t, err)
	assert.True(t, ok)

	client.SetFailure(errors.New("partner unavailable"))
	ok, err = client.RegisterClass(context.Background(), cl)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestSyncAll(t *testing.T) {
	t.Run("disabled is skipped", func(t *testing.T) {
		client, _ := newClient(t, &partnerconfig.Settings{APIKey: "k", VenueID: "v"})
		res, err := client.SyncAll(context.Background(), []string{"1", "3"})
		require.NoError(t, err)
		assert.True(t, res.Skipped)
		assert.Empty(t, res.Counts)
	})

	t.Run("counts omit zeros", func(t *testing.T) {
		client, _ := newClient(t, enabled())
		res, err := client.SyncAll(context.Background(), []string{"1", "2", "3", "4", "5"})
		require.NoError(t, err)
		assert.False(t, res.Skipped)
		assert.Equal(t, map[string]int{"1": 3, "3": 2, "4": 1}, res.Counts)
		assert.Equal(t, 6, res.Total)
	})

	t.Run("error aborts batch", func(t *testing.T) {
		client, _ := newClient(t, enabled())
		boom := errors.New("timeout")
		client.SetFailure(boom)
		res, err := client.SyncAll(context.Background(), []string{"1", "3"})
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, res.Counts)
	})
}
