// Package authsession tracks signed-in sessions and the profile attached to each.
//
// A session moves anonymous -> authenticating -> authenticated on sign-in or
// sign-up and back to anonymous on failure or sign-out. Entering authenticated
// resolves exactly one profile by account id; a failed lookup leaves Profile nil
// without failing the sign-in. The profile is cached until the next refresh.
package authsession

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/profile"
)

// State of a session.
type State string

// States.
const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// DefaultTTL is how long a session lives without signing in again.
const DefaultTTL = 24 * time.Hour

// ErrInvalidTransition is returned for a state change the machine does not allow.
var ErrInvalidTransition = errors.New("invalid session state transition")

var transitions = map[State][]State{
	StateAnonymous:      {StateAuthenticating},
	StateAuthenticating: {StateAuthenticated, StateAnonymous},
	StateAuthenticated:  {StateAuthenticated, StateAnonymous},
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Identity is who a successful sign-in or sign-up resolved to.
type Identity struct {
	AccountID string
	Email     string
	Role      string
}

// SignUpInput is the self-service registration form.
type SignUpInput struct {
	Email     string `schema:"email"`
	Password  string `schema:"password"`
	FirstName string `schema:"firstName"`
	LastName  string `schema:"lastName"`
}

// Authenticator checks credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (Identity, error)
}

// Registrar creates an account and its profile.
type Registrar interface {
	Register(ctx context.Context, in SignUpInput) (Identity, error)
}

// ProfileLoader resolves the profile linked to an account.
type ProfileLoader interface {
	GetByID(ctx context.Context, accountID string) (profile.Profile, error)
}

// Session is a snapshot of one signed-in client.
type Session struct {
	Token       string           `json:"-"`
	State       State            `json:"state"`
	AccountID   string           `json:"accountId,omitempty"`
	Email       string           `json:"email,omitempty"`
	Role        string           `json:"role,omitempty"`
	Profile     *profile.Profile `json:"profile"`
	CreatedAt   time.Time        `json:"createdAt"`
	RefreshedAt time.Time        `json:"refreshedAt"`
}

// Anonymous is the session of a client that is not signed in.
func Anonymous() Session {
	return Session{State: StateAnonymous}
}

// IsAuthenticated reports whether the session is signed in.
func (s Session) IsAuthenticated() bool {
	return s.State == StateAuthenticated
}

// IsAdmin reports whether the signed-in role is admin.
func (s Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.Role == account.RoleAdmin
}

// DisplayName prefers the profile name and falls back to the email.
func (s Session) DisplayName() string {
	if s.Profile != nil {
		return s.Profile.DisplayName()
	}
	return s.Email
}

func (s *Session) moveTo(next State) error {
	if !CanTransition(s.State, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, next)
	}
	s.State = next
	return nil
}

// EventKind names a session change.
type EventKind string

// Event kinds.
const (
	EventSignedIn  EventKind = "signed_in"
	EventRefreshed EventKind = "refreshed"
	EventSignedOut EventKind = "signed_out"
)

// Event is delivered to subscribers after a session changes.
type Event struct {
	Kind      EventKind
	AccountID string
	Email     string
	Role      string
	At        time.Time
}

// Manager owns every live session. Safe for concurrent use.
type Manager struct {
	auth     Authenticator
	reg      Registrar
	profiles ProfileLoader
	ttl      time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// Option customises a Manager.
type Option func(*Manager)

// WithTTL overrides DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(m *Manager) { m.ttl = d }
}

// WithClock overrides the manager's clock.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an empty manager.
func NewManager(auth Authenticator, reg Registrar, profiles ProfileLoader, opts ...Option) *Manager {
	m := &Manager{
		auth:     auth,
		reg:      reg,
		profiles: profiles,
		ttl:      DefaultTTL,
		now:      time.Now,
		sessions: map[string]*Session{},
		subs:     map[int]func(Event){},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// SignIn authenticates and opens a session.
// POST: on success the returned session is authenticated and holds a fresh token
// POST: on failure no session is stored
func (m *Manager) SignIn(ctx context.Context, email, password string) (Session, error) {
	return m.open(ctx, func() (Identity, error) {
		return m.auth.Authenticate(ctx, email, password)
	})
}

// SignUp registers a member and opens a session for them.
func (m *Manager) SignUp(ctx context.Context, in SignUpInput) (Session, error) {
	return m.open(ctx, func() (Identity, error) {
		return m.reg.Register(ctx, in)
	})
}

func (m *Manager) open(ctx context.Context, resolve func() (Identity, error)) (Session, error) {
	s := Anonymous()
	if err := s.moveTo(StateAuthenticating); err != nil {
		return Anonymous(), err
	}
	id, err := resolve()
	if err != nil {
		_ = s.moveTo(StateAnonymous)
		return Anonymous(), err
	}
	token, err := newToken()
	if err != nil {
		_ = s.moveTo(StateAnonymous)
		return Anonymous(), fmt.Errorf("session token: %w", err)
	}
	if err := s.moveTo(StateAuthenticated); err != nil {
		return Anonymous(), err
	}
	now := m.now()
	s.Token = token
	s.AccountID = id.AccountID
	s.Email = id.Email
	s.Role = id.Role
	s.CreatedAt = now
	s.RefreshedAt = now
	m.resolveProfile(ctx, &s)

	m.mu.Lock()
	m.sessions[token] = &s
	m.mu.Unlock()

	m.publish(Event{Kind: EventSignedIn, AccountID: s.AccountID, Email: s.Email, Role: s.Role, At: now})
	return s, nil
}

// resolveProfile loads the profile for s; failures leave Profile nil.
func (m *Manager) resolveProfile(ctx context.Context, s *Session) {
	p, err := m.profiles.GetByID(ctx, s.AccountID)
	if err != nil {
		slog.Warn("auth_event", "event", "profile_unresolved", "account_id", s.AccountID, "error", err)
		s.Profile = nil
		return
	}
	s.Profile = &p
	if p.Role != "" {
		s.Role = p.Role
	}
}

// Current returns the live session for token.
// POST: expired sessions are dropped and reported as anonymous
func (m *Manager) Current(token string) (Session, bool) {
	if token == "" {
		return Anonymous(), false
	}
	m.mu.RLock()
	s, ok := m.sessions[token]
	var snap Session
	if ok {
		snap = *s
	}
	m.mu.RUnlock()
	if !ok {
		return Anonymous(), false
	}
	if m.now().Sub(snap.CreatedAt) > m.ttl {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return Anonymous(), false
	}
	return snap, true
}

// Refresh re-resolves the profile of every session belonging to accountID.
// POST: Returns how many sessions were refreshed
func (m *Manager) Refresh(ctx context.Context, accountID string) int {
	m.mu.RLock()
	var tokens []string
	for tok, s := range m.sessions {
		if s.AccountID == accountID {
			tokens = append(tokens, tok)
		}
	}
	m.mu.RUnlock()

	refreshed := 0
	for _, tok := range tokens {
		m.mu.RLock()
		cur, ok := m.sessions[tok]
		var s Session
		if ok {
			s = *cur
		}
		m.mu.RUnlock()
		if !ok || s.moveTo(StateAuthenticated) != nil {
			continue
		}
		m.resolveProfile(ctx, &s)
		s.RefreshedAt = m.now()

		m.mu.Lock()
		if _, still := m.sessions[tok]; still {
			m.sessions[tok] = &s
			refreshed++
		}
		m.mu.Unlock()
		m.publish(Event{Kind: EventRefreshed, AccountID: s.AccountID, Email: s.Email, Role: s.Role, At: s.RefreshedAt})
	}
	return refreshed
}

// SignOut ends the session for token.
// POST: Returns false when token was not signed in
func (m *Manager) SignOut(token string) bool {
	m.mu.Lock()
	s, ok := m.sessions[token]
	if ok {
		delete(m.sessions, token)
	}
	m.mu.Unlock()
	if !ok {
		return false
	}
	_ = s.moveTo(StateAnonymous)
	m.publish(Event{Kind: EventSignedOut, AccountID: s.AccountID, Email: s.Email, Role: s.Role, At: m.now()})
	return true
}

// Subscribe registers fn for every later event and returns a cancel func.
// fn runs synchronously on the goroutine that caused the change.
func (m *Manager) Subscribe(fn func(Event)) (cancel func()) {
	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.subMu.Unlock()
	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) publish(e Event) {
	m.subMu.Lock()
	fns := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
