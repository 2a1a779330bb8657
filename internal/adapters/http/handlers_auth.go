package web

import (
	"log/slog"
	"net/http"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/authsession"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/navigation"
)

// sessionResponse is what the client sees of its session.
type sessionResponse struct {
	Session     authsession.Session `json:"session"`
	DisplayName string              `json:"displayName,omitempty"`
	Navigation  []navigation.Item   `json:"navigation"`
}

func newSessionResponse(sess authsession.Session) sessionResponse {
	return sessionResponse{
		Session:     sess,
		DisplayName: sess.DisplayName(),
		Navigation:  navigation.Items(sess.IsAuthenticated(), sess.Role),
	}
}

// handleSignIn opens a session from email and password.
// Accepts JSON or a form post.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.LoginInput
	if err := s.decodeInput(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	sess, err := s.deps.Sessions.SignIn(r.Context(), in.Email, in.Password)
	if err != nil {
		slog.Info("auth_event", "event", "signin_failed", "ip", middleware.ClientIP(r), "error", err)
		writeError(w, err)
		return
	}
	middleware.SetSessionCookie(w, sess.Token, s.secure)
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

// handleSignUp registers a member and signs them in.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var in authsession.SignUpInput
	if err := s.decodeInput(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	sess, err := s.deps.Sessions.SignUp(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.SetSessionCookie(w, sess.Token, s.secure)
	writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.SessionCookieName); err == nil {
		s.deps.Sessions.SignOut(c.Value)
	}
	middleware.ClearSessionCookie(w, s.secure)
	w.WriteHeader(http.StatusNoContent)
}

// handleSession reports the caller's session; anonymous callers get state "anonymous".
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSessionResponse(currentSession(r)))
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	writeJSON(w, http.StatusOK, navigation.Items(sess.IsAuthenticated(), sess.Role))
}

// handleBootstrapAdmin creates the first account as an admin.
// Returns 409 once any account exists.
func (s *Server) handleBootstrapAdmin(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateAccountInput
	if err := s.decodeInput(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	acc, err := orchestrators.ExecuteBootstrapAdmin(r.Context(), in, s.deps.Accounts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": acc.ID, "email": acc.Email, "role": acc.Role})
}

// handleAssignRole changes another account's role.
func (s *Server) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.AssignRoleInput
	if err := strictDecode(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := actorOf(r)
	in.ActorID, in.IP = actor.ID, actor.IP
	if in.TargetID == "" {
		writeError(w, badRequest("accountId is required"))
		return
	}
	if err := orchestrators.ExecuteAssignRole(r.Context(), in, s.deps.Roles); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"accountId": in.TargetID, "role": in.Role})
}
