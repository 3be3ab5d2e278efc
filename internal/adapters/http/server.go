// Package httpadapter serves the persisted audit results read-only: the
// latest report as JSON, a health probe and Prometheus metrics. There is
// deliberately no mutating surface here; remediation only happens through
// the audit command.
package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hostaudit/internal/metrics"
	"hostaudit/internal/ports"
)

type Server struct {
	store   ports.ReportStore
	metrics *metrics.Metrics
}

func New(store ports.ReportStore, m *metrics.Metrics) *Server {
	return &Server{store: store, metrics: m}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.getHealthz)
	r.Get("/reports/latest", s.getLatestReport)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

func (s *Server) getHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getLatestReport(w http.ResponseWriter, r *http.Request) {
	report, found, err := s.store.LatestReport(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no audit runs recorded"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
