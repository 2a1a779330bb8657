package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/imagestore"
	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/application/authsession"
	"gymdesk/internal/application/collection"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/access"
	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/class"
	"gymdesk/internal/domain/cleaning"
	"gymdesk/internal/domain/email"
	"gymdesk/internal/domain/equipment"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/partnerconfig"
	"gymdesk/internal/domain/product"
	"gymdesk/internal/domain/profile"
	"gymdesk/internal/domain/sale"
)

// maxBodyBytes caps JSON and form bodies; image uploads have their own limit.
const maxBodyBytes = 1 << 20

// errBadRequest marks malformed input that no domain error describes.
var errBadRequest = errors.New("bad request")

// statusRules maps domain errors onto HTTP statuses. First match wins.
var statusRules = []struct {
	status int
	errs   []error
}{
	{http.StatusNotFound, []error{collection.ErrNotFound, storage.ErrNotFound, access.ErrNoCredential}},
	{http.StatusUnauthorized, []error{orchestrators.ErrInvalidCredentials}},
	{http.StatusLocked, []error{orchestrators.ErrAccountLocked}},
	{http.StatusForbidden, []error{orchestrators.ErrNotAdmin, orchestrators.ErrSelfAssignment}},
	{http.StatusConflict, []error{
		orchestrators.ErrEmailAlreadyExists, orchestrators.ErrAlreadyBootstrapped,
		orchestrators.ErrEntryTerminal, sale.ErrInsufficientStock, sale.ErrProductUnavailable,
	}},
	{http.StatusServiceUnavailable, []error{imagestore.ErrDisabled}},
	{http.StatusBadRequest, []error{
		errBadRequest, collection.ErrInvalidStatus, collection.ErrInvalidPatch,
		account.ErrInvalidEmail, account.ErrEmptyEmail, account.ErrEmailTooLong, account.ErrInvalidRole,
		account.ErrEmptyPassword, account.ErrPasswordTooShort,
		profile.ErrEmptyAccountID, profile.ErrNameTooLong,
		class.ErrMissingRequired, class.ErrInvalidDate, class.ErrInvalidTime,
		class.ErrInvalidDuration, class.ErrInvalidCapacity, class.ErrInvalidEnrolled, class.ErrInvalidStatus,
		class.ErrNameTooLong, class.ErrDescriptionTooLong,
		equipment.ErrEmptyName, equipment.ErrInvalidStatus, equipment.ErrInvalidDate,
		equipment.ErrNameTooLong, equipment.ErrNotesTooLong,
		cleaning.ErrEmptyArea, cleaning.ErrEmptyAssignee, cleaning.ErrInvalidFrequency,
		cleaning.ErrInvalidStatus, cleaning.ErrInvalidDate, cleaning.ErrAreaTooLong, cleaning.ErrNotesTooLong,
		product.ErrEmptyName, product.ErrInvalidPrice, product.ErrInvalidCategory,
		product.ErrInvalidTaxRate, product.ErrNegativeStock, product.ErrInvalidStatus,
		product.ErrNameTooLong, product.ErrDescriptionTooLong,
		member.ErrEmptyName, member.ErrInvalidEmail, member.ErrInvalidMembership,
		member.ErrInvalidStatus, member.ErrInvalidJoinDate, member.ErrAlreadyActive, member.ErrAlreadyInactive,
		member.ErrNameTooLong,
		sale.ErrEmptyCart, sale.ErrInvalidPaymentMethod, sale.ErrInvalidQuantity,
		partnerconfig.ErrAPIKeyTooLong, partnerconfig.ErrVenueIDTooLong,
		email.ErrEmptySubject, email.ErrEmptyBody, email.ErrNoRecipient,
	}},
}

// statusOf returns the HTTP status for err, or 500 when err is unexpected.
func statusOf(err error) int {
	for _, rule := range statusRules {
		for _, target := range rule.errs {
			if errors.Is(err, target) {
				return rule.status
			}
		}
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": ...}. Unexpected errors are logged and hidden.
func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		internalError(w, err)
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode_response_failed", "error", err)
	}
}

// strictDecode decodes a JSON body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON: %v", err)
	}
	return nil
}

// decodeInput accepts a JSON body or a form post and fills v.
// Form fields are matched through `schema` tags.
func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request, v any) error {
	if isJSON(r) {
		return strictDecode(w, r, v)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return badRequest("invalid form: %v", err)
	}
	if err := s.decoder.Decode(v, r.PostForm); err != nil {
		return badRequest("invalid form: %v", err)
	}
	return nil
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// decodeQuery fills v from the URL query through `schema` tags.
func (s *Server) decodeQuery(r *http.Request, v any) error {
	if err := s.decoder.Decode(v, r.URL.Query()); err != nil {
		return badRequest("invalid query: %v", err)
	}
	return nil
}

// requiredID reads the id query parameter.
func requiredID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		return "", badRequest("id is required")
	}
	return id, nil
}

// currentSession returns the request's session; routes guarded by RequireAuth always have one.
func currentSession(r *http.Request) authsession.Session {
	return middleware.SessionOrAnonymous(r.Context())
}

// actorOf describes the signed-in caller for audit events.
func actorOf(r *http.Request) orchestrators.Actor {
	sess := currentSession(r)
	return orchestrators.Actor{ID: sess.AccountID, Email: sess.Email, Role: sess.Role, IP: middleware.ClientIP(r)}
}
