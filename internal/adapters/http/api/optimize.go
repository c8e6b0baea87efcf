// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/oarbit/rigger/internal/domain/constraint"
	"github.com/oarbit/rigger/internal/domain/crew"
)

// OptimizeDependencies defines the interface for optimization requests.
type OptimizeDependencies interface {
	Optimize(ctx context.Context, params OptimizeParams) (OptimizeResult, error)
}

// OptimizeHandler handles lineup optimization requests.
type OptimizeHandler struct {
	deps   OptimizeDependencies
	limits Limits
}

// NewOptimizeHandler creates a new optimize handler.
func NewOptimizeHandler(deps OptimizeDependencies, limits Limits) *OptimizeHandler {
	return &OptimizeHandler{deps: deps, limits: limits}
}

// optimizeRequest mirrors the OpenAPI schema for POST /optimize.
type optimizeRequest struct {
	BoatClass   string          `json:"boat_class"`
	Athletes    []crew.Athlete  `json:"athletes"`
	Constraints constraint.Raw  `json:"constraints"`
	Options     optimizeOptions `json:"options"`
}

type optimizeOptions struct {
	Generations    int    `json:"generations,omitempty"`
	PopulationSize int    `json:"population_size,omitempty"`
	TopN           int    `json:"top_n,omitempty"`
	Seed           *int64 `json:"seed,omitempty"`
}

func (o optimizeRequest) validate(limits Limits) error {
	switch {
	case o.BoatClass == "":
		return errors.New("missing boat_class")
	case len(o.Athletes) == 0:
		return errors.New("missing athletes")
	case o.Options.Generations < 0 || o.Options.PopulationSize < 0 || o.Options.TopN < 0:
		return errors.New("options must be positive")
	}
	if lim := limits.MaxGenerations; lim > 0 && o.Options.Generations > lim {
		return fmt.Errorf("generations above limit %d", lim)
	}
	if lim := limits.MaxPopulationSize; lim > 0 && o.Options.PopulationSize > lim {
		return fmt.Errorf("population_size above limit %d", lim)
	}
	if lim := limits.MaxTopN; lim > 0 && o.Options.TopN > lim {
		return fmt.Errorf("top_n above limit %d", lim)
	}
	return nil
}

// HandleOptimize handles POST /optimize requests.
func (h *OptimizeHandler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "api.optimize"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(h.limits); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.Optimize(r.Context(), OptimizeParams{
		BoatClass:      req.BoatClass,
		Athletes:       req.Athletes,
		Constraints:    req.Constraints,
		Generations:    req.Options.Generations,
		PopulationSize: req.Options.PopulationSize,
		TopN:           req.Options.TopN,
		Seed:           req.Options.Seed,
	})
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
