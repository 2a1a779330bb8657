package outbox_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/adapters/storage/outbox"
	"gymdesk/internal/adapters/storage/storetest"
	domain "gymdesk/internal/domain/outbox"
)

func TestSQLiteStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := outbox.NewSQLiteStore(storetest.Open(t))
	t0 := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	first := domain.New("o1", domain.ActionPartnerRegistration, `{"classId":"c1"}`, t0)
	second := domain.New("o2", domain.ActionEmail, `{"to":"a@b.c"}`, t0.Add(time.Minute))
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	pending, err := store.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "o1", pending[0].ID)
	assert.True(t, pending[0].LastAttemptedAt.IsZero())

	first.MarkAttempt(t0.Add(2 * time.Minute))
	first.MarkSuccess("cp-abc1234")
	require.NoError(t, store.Save(ctx, first))

	got, err := store.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, got.Status)
	assert.Equal(t, "cp-abc1234", got.ExternalID)
	assert.True(t, got.LastAttemptedAt.Equal(t0.Add(2*time.Minute)))

	pending, err = store.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	counts, err := store.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{domain.StatusDone: 1, domain.StatusPending: 1}, counts)

	done, err := store.List(ctx, domain.StatusDone, 10)
	require.NoError(t, err)
	assert.Len(t, done, 1)
	all, err := store.List(ctx, "", 10)
	require.NoError(t, err)
	assert.Equal(t, "o2", all[0].ID)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	_, err := outbox.NewSQLiteStore(storetest.Open(t)).GetByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}
