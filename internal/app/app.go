// Package app assembles stores, orchestrators and adapters into the dependency set the HTTP layer serves.
package app

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/zap"

	emailAdapter "gymdesk/internal/adapters/email"
	web "gymdesk/internal/adapters/http"
	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/adapters/imagestore"
	"gymdesk/internal/adapters/partner/classpass"
	"gymdesk/internal/adapters/storage"
	accessStore "gymdesk/internal/adapters/storage/access"
	accountStore "gymdesk/internal/adapters/storage/account"
	auditStore "gymdesk/internal/adapters/storage/audit"
	classStore "gymdesk/internal/adapters/storage/class"
	cleaningStore "gymdesk/internal/adapters/storage/cleaning"
	equipmentStore "gymdesk/internal/adapters/storage/equipment"
	memberStore "gymdesk/internal/adapters/storage/member"
	outboxStore "gymdesk/internal/adapters/storage/outbox"
	productStore "gymdesk/internal/adapters/storage/product"
	profileStore "gymdesk/internal/adapters/storage/profile"
	saleStore "gymdesk/internal/adapters/storage/sale"
	settingsStore "gymdesk/internal/adapters/storage/settings"
	"gymdesk/internal/application/authsession"
	"gymdesk/internal/application/cart"
	"gymdesk/internal/application/collection"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/audit"
	"gymdesk/internal/domain/class"
	"gymdesk/internal/domain/cleaning"
	"gymdesk/internal/domain/equipment"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/outbox"
	"gymdesk/internal/domain/product"
)

// Options are the external services the wiring cannot build on its own.
// Nil Sender, Images and Logger fall back to no-op implementations.
type Options struct {
	Sender  emailAdapter.Sender
	Images  imagestore.Uploader
	Logger  *zap.Logger
	Perf    *perf.Collector
	ReplyTo string
	Now     func() time.Time
}

// Wire builds every store over db and the services on top of them.
// POST: sign-in, refresh and sign-out events are written to the audit trail
func Wire(db storage.SQLDB, opts Options) web.Deps {
	if opts.Sender == nil {
		opts.Sender = emailAdapter.NewNoopSender()
	}
	if opts.Images == nil {
		opts.Images = imagestore.Disabled{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	accounts := accountStore.NewSQLiteStore(db)
	profiles := profileStore.NewSQLiteStore(db)
	classes := classStore.NewSQLiteStore(db)
	members := memberStore.NewSQLiteStore(db)
	products := productStore.NewSQLiteStore(db)
	settings := settingsStore.NewSQLiteStore(db)
	audits := auditStore.NewSQLiteStore(db)
	entries := outboxStore.NewSQLiteStore(db)
	partnerConfig := settingsStore.NewPartnerConfigRepository(settings)

	partner := classpass.New(partnerConfig, opts.Logger, classpass.WithClock(opts.Now))
	mailer := &orchestrators.Mailer{Sender: opts.Sender, Outbox: entries, ReplyTo: opts.ReplyTo, Now: opts.Now}

	accountDeps := orchestrators.CreateAccountDeps{AccountStore: accounts, ProfileStore: profiles, Now: opts.Now}
	auth := orchestrators.AuthService{
		Login:  orchestrators.LoginDeps{AccountStore: accounts, Now: opts.Now},
		SignUp: orchestrators.SignUpDeps{Accounts: accountDeps, Mail: mailer},
	}
	sessions := authsession.NewManager(auth, auth, profiles, authsession.WithClock(opts.Now))
	AuditSessions(sessions, audits)

	processor := orchestrators.NewOutboxProcessor(entries, map[string]orchestrators.ActionExecutor{
		outbox.ActionEmail:               &orchestrators.EmailExecutor{Mailer: mailer},
		outbox.ActionPartnerRegistration: &orchestrators.PartnerRegistrationExecutor{Partner: partner},
	}).WithClock(opts.Now)

	return web.Deps{
		Sessions: sessions,
		Accounts: accountDeps,
		Roles: orchestrators.AssignRoleDeps{
			AccountStore: accounts,
			ProfileStore: profiles,
			Audit:        audits,
			Sessions:     sessions,
		},

		Classes:   collection.NewManager(classes, collection.ClassRules, collection.WithClock[class.Class, *class.Class](opts.Now)),
		Equipment: collection.NewManager(equipmentStore.NewSQLiteStore(db), collection.EquipmentRules, collection.WithClock[equipment.Unit, *equipment.Unit](opts.Now)),
		Cleaning:  collection.NewManager(cleaningStore.NewSQLiteStore(db), collection.CleaningRules, collection.WithClock[cleaning.Task, *cleaning.Task](opts.Now)),
		Products:  collection.NewManager(products, collection.ProductRules, collection.WithClock[product.Product, *product.Product](opts.Now)),
		Members:   collection.NewManager(members, collection.MemberRules, collection.WithClock[member.Member, *member.Member](opts.Now)),

		ClassStore:    classes,
		MemberStore:   members,
		ProductStore:  products,
		Sales:         saleStore.NewSQLiteStore(db),
		Settings:      settings,
		AccessLog:     accessStore.NewSQLiteLogStore(db),
		Audit:         audits,
		Outbox:        entries,
		PartnerConfig: partnerConfig,

		Partner:   partner,
		Carts:     cart.NewRegistry(),
		Mail:      mailer,
		Processor: processor,
		Images:    opts.Images,
		Perf:      opts.Perf,
		Now:       opts.Now,
	}
}

// AuditSessions records session changes in the audit trail.
// Returns the subscription's cancel func.
func AuditSessions(sessions *authsession.Manager, store auditStore.Store) func() {
	actions := map[authsession.EventKind]audit.Action{
		authsession.EventSignedIn:  audit.ActionLogin,
		authsession.EventSignedOut: audit.ActionLogout,
	}
	return sessions.Subscribe(func(e authsession.Event) {
		action, ok := actions[e.Kind]
		if !ok {
			return
		}
		ev := audit.NewEvent(audit.Actor{ID: e.AccountID, Email: e.Email, Role: e.Role}, audit.CategorySecurity, action).
			At(e.At).
			WithResource("account", e.AccountID)
		if err := store.Save(context.Background(), ev); err != nil {
			slog.Error("audit_write_failed", "action", action, "account_id", e.AccountID, "error", err)
		}
	})
}
