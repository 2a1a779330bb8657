// Package web is the HTTP surface of the front desk: a JSON API under /api,
// the admin outbox under /admin, and static assets.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/schema"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/adapters/imagestore"
	"gymdesk/internal/adapters/partner/classpass"
	accessStore "gymdesk/internal/adapters/storage/access"
	auditStore "gymdesk/internal/adapters/storage/audit"
	classStore "gymdesk/internal/adapters/storage/class"
	memberStore "gymdesk/internal/adapters/storage/member"
	outboxStore "gymdesk/internal/adapters/storage/outbox"
	productStore "gymdesk/internal/adapters/storage/product"
	saleStore "gymdesk/internal/adapters/storage/sale"
	settingsStore "gymdesk/internal/adapters/storage/settings"
	"gymdesk/internal/application/authsession"
	"gymdesk/internal/application/cart"
	"gymdesk/internal/application/collection"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/partnerconfig"
)

// RateLimitPerSecond is the default per-client request rate.
const RateLimitPerSecond = 20

// Deps is everything the handlers call into. Every field is required.
type Deps struct {
	Sessions *authsession.Manager
	Accounts orchestrators.CreateAccountDeps
	Roles    orchestrators.AssignRoleDeps

	Classes   *collection.ClassManager
	Equipment *collection.EquipmentManager
	Cleaning  *collection.CleaningManager
	Products  *collection.ProductManager
	Members   *collection.MemberManager

	ClassStore    classStore.Store
	MemberStore   memberStore.Store
	ProductStore  productStore.Store
	Sales         saleStore.Store
	Settings      settingsStore.Store
	AccessLog     accessStore.LogStore
	Audit         auditStore.Store
	Outbox        outboxStore.Store
	PartnerConfig partnerconfig.Repository

	Partner   *classpass.Client
	Carts     *cart.Registry
	Mail      *orchestrators.Mailer
	Processor *orchestrators.OutboxProcessor
	Images    imagestore.Uploader
	Perf      *perf.Collector

	Now func() time.Time
}

// Options tune the middleware chain.
type Options struct {
	StaticDir      string
	CSRFKey        []byte
	Secure         bool
	TrustedOrigins []string
	RateLimit      int
	SlowRequest    time.Duration
}

// Server holds the handlers' dependencies.
type Server struct {
	deps    Deps
	secure  bool
	decoder *schema.Decoder
}

// NewServer returns a Server over deps.
func NewServer(deps Deps, secure bool) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return &Server{deps: deps, secure: secure, decoder: dec}
}

// NewMux builds the full handler: routes wrapped in the middleware chain.
// The rate limiter's cleanup stops when ctx is cancelled.
// PRE: len(opts.CSRFKey) == 32
func NewMux(ctx context.Context, deps Deps, opts Options) http.Handler {
	s := NewServer(deps, opts.Secure)
	mux := http.NewServeMux()
	if opts.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}
	s.registerRoutes(mux)

	rate := opts.RateLimit
	if rate <= 0 {
		rate = RateLimitPerSecond
	}
	limiter := middleware.NewRateLimiter(ctx, rate, time.Second)

	return middleware.Chain(mux,
		middleware.Auth(deps.Sessions),
		middleware.CSRF(opts.CSRFKey, opts.Secure, opts.TrustedOrigins),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		middleware.Timing(deps.Perf, opts.SlowRequest),
		middleware.Recover,
	)
}

func (s *Server) now() time.Time { return s.deps.Now() }
