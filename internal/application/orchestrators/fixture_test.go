package orchestrators

import (
	"context"
	"sync"
	"testing"
	"time"

	"gymdesk/internal/adapters/email"
	accountStore "gymdesk/internal/adapters/storage/account"
	accessStore "gymdesk/internal/adapters/storage/access"
	auditStore "gymdesk/internal/adapters/storage/audit"
	classStore "gymdesk/internal/adapters/storage/class"
	memberStore "gymdesk/internal/adapters/storage/member"
	outboxStore "gymdesk/internal/adapters/storage/outbox"
	productStore "gymdesk/internal/adapters/storage/product"
	profileStore "gymdesk/internal/adapters/storage/profile"
	saleStore "gymdesk/internal/adapters/storage/sale"
	settingsStore "gymdesk/internal/adapters/storage/settings"
	"gymdesk/internal/adapters/storage/storetest"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

// fixture bundles SQLite-backed stores sharing one in-memory database.
type fixture struct {
	accounts *accountStore.SQLiteStore
	profiles *profileStore.SQLiteStore
	audit    *auditStore.SQLiteStore
	outbox   *outboxStore.SQLiteStore
	products *productStore.SQLiteStore
	sales    *saleStore.SQLiteStore
	classes  *classStore.SQLiteStore
	members  *memberStore.SQLiteStore
	settings *settingsStore.SQLiteStore
	access   *accessStore.SQLiteLogStore
	sender   *email.NoopSender
	mailer   *Mailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storetest.Open(t)
	f := &fixture{
		accounts: accountStore.NewSQLiteStore(db),
		profiles: profileStore.NewSQLiteStore(db),
		audit:    auditStore.NewSQLiteStore(db),
		outbox:   outboxStore.NewSQLiteStore(db),
		products: productStore.NewSQLiteStore(db),
		sales:    saleStore.NewSQLiteStore(db),
		classes:  classStore.NewSQLiteStore(db),
		members:  memberStore.NewSQLiteStore(db),
		settings: settingsStore.NewSQLiteStore(db),
		access:   accessStore.NewSQLiteLogStore(db),
		sender:   email.NewNoopSender(),
	}
	f.mailer = &Mailer{Sender: f.sender, Outbox: f.outbox, ReplyTo: "desk@gym.test", Now: func() time.Time { return fixedNow }}
	return f
}

func (f *fixture) accountDeps() CreateAccountDeps {
	return CreateAccountDeps{AccountStore: f.accounts, ProfileStore: f.profiles, Now: func() time.Time { return fixedNow }}
}

// fakeRefresher counts session refreshes per account.
type fakeRefresher struct {
	mu    sync.Mutex
	calls map[string]int
}

func (r *fakeRefresher) Refresh(_ context.Context, accountID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[accountID]++
	return 1
}
