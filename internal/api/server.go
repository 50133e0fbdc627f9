// Package api provides the HTTP server for the FI calculator.
// Every endpoint takes a plan document in the request body and runs it
// through the same parser and engine as the CLI.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fical/fi-calculator/internal/calculation"
	"github.com/fical/fi-calculator/internal/recorder"
)

// Version is reported by GET /api/version.
const Version = "0.3.0"

// maxBodyBytes caps plan documents accepted over HTTP.
const maxBodyBytes = 1 << 20

// Server is the FI calculator HTTP API server.
type Server struct {
	engine         *calculation.CalculationEngine
	recorder       recorder.Recorder
	logger         calculation.Logger
	metricsEnabled bool
	timeout        time.Duration
}

// NewServer creates a new API server around engine.
func NewServer(engine *calculation.CalculationEngine) *Server {
	return &Server{
		engine:   engine,
		recorder: recorder.NewNoopRecorder(),
		logger:   calculation.NopLogger{},
		timeout:  30 * time.Second,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetRecorder stores every served evaluation in rec.
func (s *Server) SetRecorder(rec recorder.Recorder) {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	s.recorder = rec
}

// SetLogger sets the request logger. Nil restores the no-op logger.
func (s *Server) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	s.logger = l
}

// SetTimeout bounds how long a single request may run.
func (s *Server) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(instrument)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": Version})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/projection", s.handleProjection)
		r.Post("/fi-age", s.handleFIAge)
		r.Post("/summary", s.handleSummary)
		r.Post("/report", s.handleReport)
		r.Post("/compare", s.handleCompare)
		r.Get("/runs", s.handleListRuns)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filter := recorder.RunFilter{PlanFingerprint: r.URL.Query().Get("fingerprint")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}
	runs, err := s.recorder.ListRuns(filter)
	if err != nil {
		s.logger.Errorf("list runs: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []recorder.RunRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"status":  status,
		},
	})
}
