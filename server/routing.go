package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupHTTPRoutes configures all HTTP handlers
func (s *Server) setupHTTPRoutes() {
	s.mux.HandleFunc("/health", s.corsMiddleware(s.HandleHealth))
	s.mux.HandleFunc("/api/summary", s.corsMiddleware(s.HandleSummaries))       // Every domain (GET)
	s.mux.HandleFunc("/api/summary/", s.corsMiddleware(s.HandleSummary))        // One domain (GET); POST .../invalidate
	s.mux.HandleFunc("/api/diagnostics", s.corsMiddleware(s.HandleDiagnostics)) // Cache, bus and sync state (GET)
	s.mux.HandleFunc("/api/resync", s.corsMiddleware(s.HandleResync))           // Manual sync pass (POST, rate-limited)
	s.mux.HandleFunc("/api/kpi", s.corsMiddleware(s.HandleKPI))                 // KPI targets against current summaries (GET)
	s.mux.HandleFunc("/api/history/", s.corsMiddleware(s.HandleHistory))        // Snapshots for one domain (GET)
	s.mux.HandleFunc("/ws", s.HandleWebSocket)                                  // Change events (?domain=dof|...|all)
	if s.gatherer != nil {
		s.mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// corsMiddleware adds CORS headers for allowed origins and answers preflight requests
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}
