// internal/api/server.go

// Package api exposes the comparison core and the override resources over
// HTTP. Every resource shares the same envelope: permissive CORS, no-cache
// directives, {success, ...} JSON bodies, 405 for unknown methods and 500
// with {success:false, error} for unexpected failures.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"insurance-portal/internal/common/logger"
	"insurance-portal/internal/common/metrics"
	"insurance-portal/internal/common/observability"
	"insurance-portal/internal/engine/comparison"
	"insurance-portal/internal/history"
	"insurance-portal/internal/models"
	"insurance-portal/internal/overrides"
	"insurance-portal/internal/report"
)

// Server wires the handlers to their collaborators.
type Server struct {
	engine    *comparison.Engine
	overrides *overrides.Service
	history   *history.Store // nil when history is disabled
	assembler *report.Assembler
	providers []models.ManualProvider
	obs       *observability.Observability
	log       logger.Logger
	mux       *http.ServeMux
}

func NewServer(
	engine *comparison.Engine,
	overrideSvc *overrides.Service,
	historyStore *history.Store,
	assembler *report.Assembler,
	providers []models.ManualProvider,
	obs *observability.Observability,
	log logger.Logger,
) *Server {
	s := &Server{
		engine:    engine,
		overrides: overrideSvc,
		history:   historyStore,
		assembler: assembler,
		providers: providers,
		obs:       obs,
		log:       log.WithFields(map[string]interface{}{"component": "api"}),
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/benefits", s.wrap("benefits", s.handleBenefits))
	s.mux.HandleFunc("/api/plan-edits", s.wrap("plan-edits", s.handlePlanEdits))
	s.mux.HandleFunc("/api/manual-plans", s.wrap("manual-plans", s.handleManualPlans))
	s.mux.HandleFunc("/api/providers", s.wrap("providers", s.handleProviders))
	s.mux.HandleFunc("/api/search", s.wrap("search", s.handleSearch))
	s.mux.HandleFunc("/api/report", s.wrap("report", s.handleReport))
	s.mux.HandleFunc("/api/report-history", s.wrap("report-history", s.handleHistory))
	s.mux.HandleFunc("/healthz", s.wrap("healthz", s.handleHealth))
	s.mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// wrap applies the shared envelope: CORS + no-cache headers on every
// response, OPTIONS preflight, panic recovery and request metrics.
func (s *Server) wrap(resource string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		setEnvelopeHeaders(w)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			metrics.HTTPRequestsTotal.WithLabelValues(resource, r.Method, "200").Inc()
			return
		}

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("handler panic", map[string]interface{}{
					"resource": resource,
					"panic":    fmt.Sprint(rec),
				})
				writeError(sw, http.StatusInternalServerError, fmt.Sprint(rec))
			}
			metrics.HTTPRequestsTotal.WithLabelValues(resource, r.Method, fmt.Sprint(sw.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
		}()

		next(sw, r)
	}
}

func setEnvelopeHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate, max-age=0")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}

type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "status": "ok"})
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"providers": s.providers,
	})
}
