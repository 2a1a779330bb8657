package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/application/listutil"
	"gymdesk/internal/domain/outbox"
)

// outboxListing is the admin view of the outbox.
type outboxListing struct {
	Counts  map[string]int `json:"counts"`
	Entries []outbox.Entry `json:"entries"`
}

// handleListOutbox lists entries. ?status= narrows the list (default failed; "all" for every state).
func (s *Server) handleListOutbox(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	switch status {
	case "":
		status = outbox.StatusFailed
	case "all":
		status = ""
	}

	entries, err := s.deps.Outbox.List(r.Context(), status, listutil.ParseLimit(q, 50, 100))
	if err != nil {
		internalError(w, err)
		return
	}
	counts, err := s.deps.Outbox.CountByStatus(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	if entries == nil {
		entries = []outbox.Entry{}
	}
	writeJSON(w, http.StatusOK, outboxListing{Counts: counts, Entries: entries})
}

// handleRetryOutbox runs one entry now, even when its automatic attempts are used up.
func (s *Server) handleRetryOutbox(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	entry, err := s.deps.Processor.ProcessSingle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("outbox_event", "event", "manual_retry", "entry_id", id, "status", entry.Status, "actor_id", currentSession(r).AccountID)
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleAbandonOutbox(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.deps.Processor.AbandonEntry(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("outbox_event", "event", "abandoned", "entry_id", id, "actor_id", currentSession(r).AccountID)
	writeJSON(w, http.StatusOK, map[string]string{"status": outbox.StatusAbandoned})
}

// handlePerf serves the timing snapshot. ?minutes= sets the window (default 15).
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.deps.Perf == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "timing is disabled"})
		return
	}
	minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
	if err != nil || minutes < 1 || minutes > 24*60 {
		minutes = 15
	}
	since := s.now().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, s.deps.Perf.Snapshot(since, 20))
}
