package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/railsight/spm-analyzer/internal/domain"
)

// Analyzer runs one engine pass over a sample series.
type Analyzer interface {
	Analyze(ctx context.Context, samples []domain.Sample, table domain.StationTable, cfg domain.RunConfig) (*domain.Report, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// AnalyzeRequest is the POST /api/v1/analyze payload: the canonical sample
// series, the route reference data, and the run configuration.
type AnalyzeRequest struct {
	Samples      []domain.Sample     `json:"samples"`
	StationTable domain.StationTable `json:"stationTable"`
	Config       domain.RunConfig    `json:"config"`
}

// Server exposes the analysis API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	analyzer   Analyzer
	logger     *slog.Logger
	maxBody    int64
}

// NewServer creates the HTTP server. maxBody caps the analyze request body.
func NewServer(addr string, analyzer Analyzer, ready ReadinessChecker, logger *slog.Logger, maxBody int64) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
			// Generous read timeout: full-shift SPM logs are tens of
			// megabytes of JSON.
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		analyzer: analyzer,
		logger:   logger,
		maxBody:  maxBody,
	}

	mux.HandleFunc("POST /api/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", requestID)
	logger := s.logger.With("request_id", requestID)

	var req AnalyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", requestID)
			return
		}
		logger.Warn("malformed analyze request", "error", err)
		writeError(w, http.StatusBadRequest, "malformed request body", requestID)
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), req.Samples, req.StationTable, req.Config)
	if err != nil {
		status := http.StatusInternalServerError
		if isEngineRejection(err) {
			status = http.StatusUnprocessableEntity
		} else {
			logger.Error("analysis failed", "error", err)
		}
		writeError(w, status, err.Error(), requestID)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// isEngineRejection distinguishes structurally invalid input, which is the
// client's fault, from internal failures.
func isEngineRejection(err error) bool {
	return errors.Is(err, domain.ErrEmptyInput) ||
		errors.Is(err, domain.ErrNoDeparture) ||
		errors.Is(err, domain.ErrInvalidStationRange) ||
		errors.Is(err, domain.ErrNoDataAfterDeparture)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeError(w http.ResponseWriter, status int, msg, requestID string) {
	writeJSON(w, status, map[string]string{"error": msg, "requestId": requestID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
