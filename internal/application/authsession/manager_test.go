package authsession_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/application/authsession"
	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/profile"
)

var errBadPassword = errors.New("invalid email or password")

type fakeAuth struct{}

func (fakeAuth) Authenticate(_ context.Context, email, password string) (authsession.Identity, error) {
	if password != "correct horse" {
		return authsession.Identity{}, errBadPassword
	}
	return authsession.Identity{AccountID: "acc-" + email, Email: email, Role: account.RoleMember}, nil
}

func (fakeAuth) Register(_ context.Context, in authsession.SignUpInput) (authsession.Identity, error) {
	return authsession.Identity{AccountID: "acc-" + in.Email, Email: in.Email, Role: account.RoleMember}, nil
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]profile.Profile
	lookups  int
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (profile.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	p, ok := f.profiles[id]
	if !ok {
		return profile.Profile{}, errors.New("no profile")
	}
	return p, nil
}

func newManager(profiles *fakeProfiles, opts ...authsession.Option) *authsession.Manager {
	return authsession.NewManager(fakeAuth{}, fakeAuth{}, profiles, opts...)
}

func TestSignIn_ResolvesProfileOnce(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]profile.Profile{
		"acc-ana@gym.test": {ID: "acc-ana@gym.test", Email: "ana@gym.test", FirstName: "Ana", Role: account.RoleMember},
	}}
	m := newManager(profiles)

	s, err := m.SignIn(context.Background(), "ana@gym.test", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, authsession.StateAuthenticated, s.State)
	require.NotNil(t, s.Profile)
	assert.Equal(t, "Ana", s.DisplayName())
	assert.NotEmpty(t, s.Token)

	for i := 0; i < 3; i++ {
		cur, ok := m.Current(s.Token)
		require.True(t, ok)
		assert.Equal(t, "Ana", cur.Profile.FirstName)
	}
	assert.Equal(t, 1, profiles.lookups, "profile is cached between reads")
}

func TestSignIn_MissingProfileStillAuthenticates(t *testing.T) {
	m := newManager(&fakeProfiles{})
	s, err := m.SignIn(context.Background(), "ghost@gym.test", "correct horse")
	require.NoError(t, err)
	assert.True(t, s.IsAuthenticated())
	assert.Nil(t, s.Profile)
	assert.Equal(t, "ghost@gym.test", s.DisplayName())
}

func TestSignIn_FailureStaysAnonymous(t *testing.T) {
	m := newManager(&fakeProfiles{})
	var events []authsession.Event
	m.Subscribe(func(e authsession.Event) { events = append(events, e) })

	s, err := m.SignIn(context.Background(), "ana@gym.test", "wrong")
	assert.ErrorIs(t, err, errBadPassword)
	assert.Equal(t, authsession.StateAnonymous, s.State)
	assert.Empty(t, s.Token)
	assert.Empty(t, events)
}

func TestSignUpAndSignOut(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]profile.Profile{
		"acc-new@gym.test": {ID: "acc-new@gym.test", Email: "new@gym.test", Role: account.RoleMember},
	}}
	m := newManager(profiles)
	var kinds []authsession.EventKind
	cancel := m.Subscribe(func(e authsession.Event) { kinds = append(kinds, e.Kind) })

	s, err := m.SignUp(context.Background(), authsession.SignUpInput{Email: "new@gym.test", Password: "x"})
	require.NoError(t, err)
	require.NotNil(t, s.Profile)

	assert.True(t, m.SignOut(s.Token))
	assert.False(t, m.SignOut(s.Token))
	_, ok := m.Current(s.Token)
	assert.False(t, ok)
	assert.Equal(t, []authsession.EventKind{authsession.EventSignedIn, authsession.EventSignedOut}, kinds)

	cancel()
	_, err = m.SignIn(context.Background(), "new@gym.test", "correct horse")
	require.NoError(t, err)
	assert.Len(t, kinds, 2, "cancelled subscriber gets nothing")
}

func TestRefresh_PicksUpRoleChange(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]profile.Profile{
		"acc-ana@gym.test": {ID: "acc-ana@gym.test", Email: "ana@gym.test", Role: account.RoleMember},
	}}
	m := newManager(profiles)
	a, err := m.SignIn(context.Background(), "ana@gym.test", "correct horse")
	require.NoError(t, err)
	b, err := m.SignIn(context.Background(), "ana@gym.test", "correct horse")
	require.NoError(t, err)
	assert.False(t, a.IsAdmin())

	profiles.mu.Lock()
	profiles.profiles["acc-ana@gym.test"] = profile.Profile{ID: "acc-ana@gym.test", Email: "ana@gym.test", Role: account.RoleAdmin}
	profiles.mu.Unlock()

	assert.Equal(t, 2, m.Refresh(context.Background(), "acc-ana@gym.test"))
	for _, tok := range []string{a.Token, b.Token} {
		cur, ok := m.Current(tok)
		require.True(t, ok)
		assert.True(t, cur.IsAdmin())
	}
	assert.Equal(t, 0, m.Refresh(context.Background(), "someone-else"))
}

func TestCurrent_Expires(t *testing.T) {
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	m := newManager(&fakeProfiles{}, authsession.WithTTL(time.Hour), authsession.WithClock(func() time.Time { return now }))
	s, err := m.SignIn(context.Background(), "ana@gym.test", "correct horse")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	cur, ok := m.Current(s.Token)
	assert.False(t, ok)
	assert.Equal(t, authsession.StateAnonymous, cur.State)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to authsession.State
		want     bool
	}{
		{authsession.StateAnonymous, authsession.StateAuthenticating, true},
		{authsession.StateAnonymous, authsession.StateAuthenticated, false},
		{authsession.StateAuthenticating, authsession.StateAuthenticated, true},
		{authsession.StateAuthenticating, authsession.StateAnonymous, true},
		{authsession.StateAuthenticated, authsession.StateAnonymous, true},
		{authsession.StateAuthenticated, authsession.StateAuthenticating, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, authsession.CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
