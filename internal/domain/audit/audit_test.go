package audit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gymdesk/internal/domain/audit"
)

func TestNewEvent_CopiesActor(t *testing.T) {
	owner := audit.Actor{ID: "acc-1", Email: "owner@gym.test", Role: "admin", IP: "10.0.0.2"}
	e := audit.NewEvent(owner, audit.CategoryAccount, audit.ActionRoleChange).
		WithResource("account", "acc-2").
		WithDescription("member -> admin").
		WithSeverity(audit.SeverityWarning)

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "acc-1", e.ActorID)
	assert.Equal(t, "owner@gym.test", e.ActorEmail)
	assert.Equal(t, "10.0.0.2", e.IPAddress)
	assert.Equal(t, "account", e.ResourceType)
	assert.Equal(t, "acc-2", e.ResourceID)
	assert.Equal(t, audit.SeverityWarning, e.Severity)

	other := audit.NewEvent(owner, audit.CategoryAccount, audit.ActionRoleChange)
	assert.NotEqual(t, e.ID, other.ID)
	assert.Equal(t, audit.SeverityInfo, other.Severity)
}

func TestEvent_AtNormalisesToUTC(t *testing.T) {
	local := time.Date(2026, 10, 16, 21, 0, 0, 0, time.FixedZone("NZDT", 13*3600))
	e := audit.NewEvent(audit.Actor{ID: "acc-1"}, audit.CategorySecurity, audit.ActionLogin).At(local)

	assert.True(t, e.Timestamp.Equal(local))
	assert.Equal(t, time.UTC, e.Timestamp.Location())
}
