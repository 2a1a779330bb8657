package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/adapters/storage/audit"
	"gymdesk/internal/adapters/storage/storetest"
	domain "gymdesk/internal/domain/audit"
)

func TestSQLiteStore_SaveAndFilter(t *testing.T) {
	ctx := context.Background()
	store := audit.NewSQLiteStore(storetest.Open(t))

	admin := domain.Actor{ID: "a1", Email: "admin@gym.test", Role: "admin", IP: "10.0.0.2"}
	member := domain.Actor{ID: "a2", Email: "m@gym.test", Role: "member"}
	login := domain.NewEvent(admin, domain.CategorySecurity, domain.ActionLogin).
		At(time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))
	role := domain.NewEvent(admin, domain.CategoryAccount, domain.ActionRoleChange).
		At(time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC)).
		WithResource("account", "a2").
		WithDescription("member -> admin")
	other := domain.NewEvent(member, domain.CategorySecurity, domain.ActionLogin).
		At(time.Date(2026, 10, 3, 8, 0, 0, 0, time.UTC))
	for _, e := range []domain.Event{login, role, other} {
		require.NoError(t, store.Save(ctx, e))
	}

	all, err := store.List(ctx, audit.Filter{}, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, other.ID, all[0].ID)

	byActor, err := store.List(ctx, audit.Filter{ActorID: "a1", Category: domain.CategoryAccount}, 10)
	require.NoError(t, err)
	require.Len(t, byActor, 1)
	assert.Equal(t, "member -> admin", byActor[0].Description)
	assert.Equal(t, "account", byActor[0].ResourceType)
	assert.Equal(t, "10.0.0.2", byActor[0].IPAddress)

	since, err := store.List(ctx, audit.Filter{Since: role.Timestamp}, 10)
	require.NoError(t, err)
	assert.Len(t, since, 2)
}
