package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/logger"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// HandleHealth reports liveness and whether a sync pass is running
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"syncing": s.engine.Syncing(),
		"clients": s.ClientCount(),
	})
}

// HandleSummaries returns every domain's summary keyed by domain name
func (s *Server) HandleSummaries(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	out := make(map[quality.Domain]any, len(quality.Domains))
	for _, d := range quality.Domains {
		out[d], _ = s.engine.Summary(r.Context(), d)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleSummary serves GET /api/summary/{domain} and POST /api/summary/{domain}/invalidate
func (s *Server) HandleSummary(w http.ResponseWriter, r *http.Request) {
	parts := extractPathParts(r.URL.Path, "/api/summary/")
	d, err := quality.ParseDomain(parts[0], false)
	if err != nil {
		writeEngineError(w, errors.WithHint(err, "domains: dof, supplier, quality_cost, vehicle, audit"))
		return
	}

	if len(parts) == 2 && parts[1] == "invalidate" {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		if err := s.engine.Invalidate(d); err != nil {
			writeEngineError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if len(parts) > 1 {
		writeError(w, http.StatusNotFound, "not found", nil)
		return
	}
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.engine.Summary(r.Context(), d)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleDiagnostics returns cache, bus and sync state
func (s *Server) HandleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	diag := s.engine.Diagnostics()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"engine":  diag,
		"clients": s.ClientCount(),
	})
}

// HandleResync runs a sync pass now. Requests beyond the per-minute budget get 429.
func (s *Server) HandleResync(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if !s.limiter.Allow() {
		writeEngineError(w, errors.WithHint(errors.Wrap(errors.ErrRateLimited, "manual resync budget exhausted"),
			"the scheduler keeps summaries current; retry in a minute"))
		return
	}

	res, err := s.engine.ForceResync(r.Context())
	if err != nil {
		s.logger.Warnw("Manual resync interrupted", logger.FieldError, err)
		writeError(w, http.StatusServiceUnavailable, err.Error(), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleKPI evaluates the KPI policy against current summaries
func (s *Server) HandleKPI(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	results := s.engine.KPI(r.Context())
	if results == nil {
		writeError(w, http.StatusNotFound, "no KPI policy loaded", errors.WithHint(errors.ErrNotFound, "set kpi.targets_file in am.toml"))
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// HandleHistory lists snapshots: GET /api/history/{domain}?since=RFC3339&limit=N
func (s *Server) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	parts := extractPathParts(r.URL.Path, "/api/history/")
	d, err := quality.ParseDomain(parts[0], false)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var since time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		since, err = time.Parse(time.RFC3339, v)
		if err != nil {
			writeEngineError(w, errors.NewInvalidRequestError("since must be RFC3339: %v", err))
			return
		}
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeEngineError(w, errors.NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
	}

	snaps, err := s.engine.History(r.Context(), d, since, limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}
