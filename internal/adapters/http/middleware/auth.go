package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"

	"gymdesk/internal/application/authsession"
	"gymdesk/internal/domain/account"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName carries the session token.
const SessionCookieName = "gymdesk_session"

// SessionSource resolves a token to a live session.
type SessionSource interface {
	Current(token string) (authsession.Session, bool)
}

// Auth returns middleware that resolves the session cookie and stores the session in context.
// It does NOT block anonymous requests; use RequireAuth or RequireRole for that.
func Auth(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if s, ok := sessions.Current(cookie.Value); ok {
					r = r.WithContext(ContextWithSession(r.Context(), s))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth blocks anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			deny(w, http.StatusUnauthorized, "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole blocks anonymous requests with 401 and other roles with 403.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := GetSessionFromContext(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "sign in required")
				return
			}
			if !slices.Contains(roles, s.Role) {
				deny(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is RequireRole(account.RoleAdmin).
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(account.RoleAdmin)(next)
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// GetSessionFromContext returns the authenticated session, if any.
func GetSessionFromContext(ctx context.Context) (authsession.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(authsession.Session)
	if !ok || !s.IsAuthenticated() {
		return authsession.Session{}, false
	}
	return s, true
}

// SessionOrAnonymous returns the session in ctx or an anonymous one.
func SessionOrAnonymous(ctx context.Context) authsession.Session {
	if s, ok := GetSessionFromContext(ctx); ok {
		return s
	}
	return authsession.Anonymous()
}

// IsAdmin reports whether the request is signed in as an admin.
func IsAdmin(ctx context.Context) bool {
	s, ok := GetSessionFromContext(ctx)
	return ok && s.IsAdmin()
}

// ContextWithSession returns ctx carrying s.
func ContextWithSession(ctx context.Context, s authsession.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SetSessionCookie stores token on the client.
// secure should be true whenever the site is served over HTTPS.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(authsession.DefaultTTL.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
