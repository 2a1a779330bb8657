package web

import (
	"net/http"
	"strconv"

	"gymdesk/internal/adapters/qrcode"
	"gymdesk/internal/application/listutil"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
)

// maxQRSize caps ?size= on the QR endpoint.
const maxQRSize = 1024

func (s *Server) accessDeps() orchestrators.AccessDeps {
	return orchestrators.AccessDeps{
		Settings: s.deps.Settings,
		Log:      s.deps.AccessLog,
		Audit:    s.deps.Audit,
		Now:      s.deps.Now,
	}
}

func (s *Server) handleGetPartnerConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.deps.PartnerConfig.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg.ToView())
}

// handleSavePartnerConfig replaces the partner settings. Omitting apiKey keeps the stored key.
func (s *Server) handleSavePartnerConfig(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.PartnerConfigInput
	if err := strictDecode(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	view, err := orchestrators.ExecuteSavePartnerConfig(r.Context(), actorOf(r), in, orchestrators.PartnerConfigDeps{
		Repo:  s.deps.PartnerConfig,
		Audit: s.deps.Audit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleGetAccessCode returns the current code; 404 until an admin issues one.
func (s *Server) handleGetAccessCode(w http.ResponseWriter, r *http.Request) {
	cred, err := orchestrators.LoadCredential(r.Context(), s.deps.Settings)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cred)
}

func (s *Server) handleRotateAccessCode(w http.ResponseWriter, r *http.Request) {
	cred, err := orchestrators.ExecuteRotateAccessCode(r.Context(), actorOf(r), s.accessDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cred)
}

// handleAccessQR renders the current code as a PNG. ?size= sets the edge in pixels.
func (s *Server) handleAccessQR(w http.ResponseWriter, r *http.Request) {
	cred, err := orchestrators.LoadCredential(r.Context(), s.deps.Settings)
	if err != nil {
		writeError(w, err)
		return
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size > maxQRSize {
		size = maxQRSize
	}
	png, err := qrcode.PNG(cred.Code, size)
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

type verifyRequest struct {
	Code string `json:"code"`
}

// handleVerifyAccess is called by the door scanner. Denials are 200 with result "denied".
func (s *Server) handleVerifyAccess(w http.ResponseWriter, r *http.Request) {
	var in verifyRequest
	if err := strictDecode(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	res, err := orchestrators.ExecuteVerifyAccess(r.Context(), in.Code, s.accessDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAccessLog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.AccessLog.List(r.Context(), listutil.ParseLimit(r.URL.Query(), 100, 500))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := projections.QueryDashboard(r.Context(), s.now(), projections.DashboardDeps{
		Members:   s.deps.MemberStore,
		Classes:   all(s.deps.Classes),
		Equipment: all(s.deps.Equipment),
		Cleaning:  all(s.deps.Cleaning),
		Sales:     s.deps.Sales,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
