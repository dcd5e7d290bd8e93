// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/baller70/shotform/internal/domain/analysis"
	"github.com/baller70/shotform/internal/domain/model"
	"github.com/baller70/shotform/internal/domain/pose"
	"github.com/baller70/shotform/internal/domain/report"
	"github.com/baller70/shotform/internal/domain/tier"
	"github.com/baller70/shotform/internal/domain/validation"
)

const defaultMaxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error)
	AnalyzeBatch(ctx context.Context, reqs []analysis.Request) ([]model.Outcome, error)
	Validate(ctx context.Context, p pose.Pose) validation.Result

	Tiers() []tier.Criteria
	Tier(t tier.Tier) (tier.Criteria, error)
	TierForAge(age int) tier.Tier
}

// StatsFunc returns a JSON-encodable snapshot for GET /stats.
type StatsFunc func(ctx context.Context) any

// Server wires HTTP routes for the analysis API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	analysisHandler *AnalysisHandler
	batchHandler    *BatchHandler
	validateHandler *ValidateHandler
	tiersHandler    *TiersHandler

	limiter      *rate.Limiter
	reportLevel  report.Level
	maxBodyBytes int64
	stats        StatsFunc
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithRateLimit limits the analysis endpoints to rps requests per second
// with the given burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithDefaultReportLevel renders markdown at level when the request does
// not ask for one.
func WithDefaultReportLevel(level report.Level) ServerOption {
	return func(s *Server) {
		s.reportLevel = level
	}
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithStats sets the provider behind GET /stats.
func WithStats(fn StatsFunc) ServerOption {
	return func(s *Server) {
		if fn != nil {
			s.stats = fn
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		maxBodyBytes: defaultMaxBodyBytes,
		stats:        func(context.Context) any { return map[string]any{} },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(s.stats)
	s.analysisHandler = NewAnalysisHandler(deps, s.reportLevel, s.maxBodyBytes)
	s.batchHandler = NewBatchHandler(deps, s.maxBodyBytes)
	s.validateHandler = NewValidateHandler(deps, s.maxBodyBytes)
	s.tiersHandler = NewTiersHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	limited := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return MetricsMiddleware(RateLimitMiddleware(h, endpoint, s.limiter), endpoint)
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /v1/analyses", limited(s.analysisHandler.HandlePostAnalysis, "analyses"))
	mux.HandleFunc("POST /v1/analyses/batch", limited(s.batchHandler.HandlePostBatch, "analyses_batch"))
	mux.HandleFunc("POST /v1/validate", limited(s.validateHandler.HandlePostValidate, "validate"))

	mux.HandleFunc("GET /v1/tiers", MetricsMiddleware(s.tiersHandler.HandleListTiers, "tiers"))
	mux.HandleFunc("GET /v1/tiers/{tier}", MetricsMiddleware(s.tiersHandler.HandleGetTier, "tier"))
	mux.HandleFunc("GET /v1/tier-for-age", MetricsMiddleware(s.tiersHandler.HandleTierForAge, "tier_for_age"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a single JSON document of at most limit bytes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if dec.More() {
		return errors.New("decode body: trailing data after JSON document")
	}
	return nil
}
