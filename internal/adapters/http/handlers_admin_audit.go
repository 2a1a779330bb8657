package web

import (
	"net/http"
	"time"

	auditStore "gymdesk/internal/adapters/storage/audit"
	"gymdesk/internal/application/listutil"
	auditDomain "gymdesk/internal/domain/audit"
)

// handleAudit lists audit events, newest first.
// Filters: category, action, actor_id, from (YYYY-MM-DD); limit defaults to 100, max 1000.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := auditStore.Filter{
		Category: auditDomain.Category(q.Get("category")),
		Action:   auditDomain.Action(q.Get("action")),
		ActorID:  q.Get("actor_id"),
	}
	if from := q.Get("from"); from != "" {
		since, err := time.ParseInLocation(dateLayout, from, time.UTC)
		if err != nil {
			writeError(w, badRequest("from must be YYYY-MM-DD"))
			return
		}
		filter.Since = since
	}

	events, err := s.deps.Audit.List(r.Context(), filter, listutil.ParseLimit(q, 100, 1000))
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
