// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/oarbit/rigger/internal/app"
	"github.com/oarbit/rigger/internal/domain/boat"
	"github.com/oarbit/rigger/internal/domain/constraint"
	"github.com/oarbit/rigger/internal/domain/crew"
	"github.com/oarbit/rigger/internal/domain/fitness"
	"github.com/oarbit/rigger/internal/domain/predict"
	"github.com/oarbit/rigger/internal/domain/search"
	"github.com/oarbit/rigger/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Optimize(ctx context.Context, params OptimizeParams) (OptimizeResult, error)
	Evaluate(ctx context.Context, boatClass string, athletes []crew.Athlete, lineup crew.Lineup) (fitness.Result, error)
	Predict(ctx context.Context, params PredictParams) (predict.Prediction, error)
	Compare(ctx context.Context, params CompareParams) (predict.Comparison, error)
	Boats() []boat.Configuration
	Courses() []string
}

// Service parameter shapes, re-exported so handler signatures stay short.
type (
	OptimizeParams = service.OptimizeParams
	OptimizeResult = service.OptimizeResult
	PredictParams  = service.PredictParams
	CompareParams  = service.CompareParams
	CrewSelector   = service.CrewSelector
)

// Limits caps caller-supplied optimization options. Zero fields mean no cap.
type Limits struct {
	MaxGenerations    int
	MaxPopulationSize int
	MaxTopN           int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	boatsHandler    *BoatsHandler
	optimizeHandler *OptimizeHandler
	evaluateHandler *EvaluateHandler
	predictHandler  *PredictHandler
	compareHandler  *CompareHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, limits Limits) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		boatsHandler:    NewBoatsHandler(deps),
		optimizeHandler: NewOptimizeHandler(deps, limits),
		evaluateHandler: NewEvaluateHandler(deps),
		predictHandler:  NewPredictHandler(deps),
		compareHandler:  NewCompareHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/boats", MetricsMiddleware(s.boatsHandler.HandleGetBoats, "boats"))
	mux.HandleFunc("/optimize", MetricsMiddleware(s.optimizeHandler.HandleOptimize, "optimize"))
	mux.HandleFunc("/evaluate", MetricsMiddleware(s.evaluateHandler.HandleEvaluate, "evaluate"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/compare", MetricsMiddleware(s.compareHandler.HandleCompare, "compare"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
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

// statusFor translates sentinel error kinds from the service and domain
// layers into an HTTP status and a stable error code. Anything unmapped is
// an internal error.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrLineupNotFound):
		return http.StatusNotFound, "lineup_not_found"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "not_ready"
	case errors.Is(err, service.ErrClassMismatch):
		return http.StatusBadRequest, "class_mismatch"
	case errors.Is(err, boat.ErrUnknownClass):
		return http.StatusBadRequest, "unknown_boat_class"
	case errors.Is(err, boat.ErrInvalidSide):
		return http.StatusBadRequest, "invalid_side"
	case errors.Is(err, boat.ErrInvalidSeat):
		return http.StatusBadRequest, "invalid_seat"
	case errors.Is(err, crew.ErrMissingAthleteID),
		errors.Is(err, crew.ErrDuplicateAthlete),
		errors.Is(err, crew.ErrUnknownAthlete):
		return http.StatusBadRequest, "invalid_roster"
	case errors.Is(err, constraint.ErrTooManyRequired):
		return http.StatusBadRequest, "too_many_required"
	case errors.Is(err, constraint.ErrConflictingConstraint):
		return http.StatusBadRequest, "conflicting_constraint"
	case errors.Is(err, constraint.ErrInvalidCoxswain):
		return http.StatusBadRequest, "invalid_coxswain"
	case errors.Is(err, constraint.ErrNoCoxswainSeat):
		return http.StatusBadRequest, "no_coxswain_seat"
	case errors.Is(err, search.ErrInfeasibleConstraints):
		return http.StatusBadRequest, "infeasible_constraints"
	case errors.Is(err, predict.ErrUnsupportedCourse):
		return http.StatusBadRequest, "unsupported_course_type"
	case errors.Is(err, predict.ErrEmptyLineup):
		return http.StatusBadRequest, "empty_lineup"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
