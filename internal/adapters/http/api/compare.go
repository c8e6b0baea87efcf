// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oarbit/rigger/internal/domain/crew"
	"github.com/oarbit/rigger/internal/domain/predict"
)

// CompareDependencies defines the interface for crew comparison requests.
type CompareDependencies interface {
	Compare(ctx context.Context, params CompareParams) (predict.Comparison, error)
}

// CompareHandler handles head-to-head crew comparison requests.
type CompareHandler struct {
	deps CompareDependencies
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(deps CompareDependencies) *CompareHandler {
	return &CompareHandler{deps: deps}
}

// compareRequest mirrors the OpenAPI schema for POST /compare. Each side is
// either a stored lineup id or a list of athlete ids resolved against the
// shared athletes list.
type compareRequest struct {
	BoatClass  string         `json:"boat_class"`
	CourseType string         `json:"course_type,omitempty"`
	Athletes   []crew.Athlete `json:"athletes,omitempty"`
	LineupA    []string       `json:"lineup_a,omitempty"`
	LineupB    []string       `json:"lineup_b,omitempty"`
	LineupAID  string         `json:"lineup_a_id,omitempty"`
	LineupBID  string         `json:"lineup_b_id,omitempty"`
}

func (c compareRequest) validate() error {
	switch {
	case c.LineupAID == "" && len(c.LineupA) == 0:
		return errors.New("missing lineup_a")
	case c.LineupBID == "" && len(c.LineupB) == 0:
		return errors.New("missing lineup_b")
	}
	if len(c.LineupA) > 0 || len(c.LineupB) > 0 {
		switch {
		case c.BoatClass == "":
			return errors.New("missing boat_class")
		case len(c.Athletes) == 0:
			return errors.New("missing athletes")
		}
	}
	return nil
}

// HandleCompare handles POST /compare requests.
func (h *CompareHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	comparison, err := h.deps.Compare(r.Context(), CompareParams{
		BoatClass:  req.BoatClass,
		CourseType: req.CourseType,
		Athletes:   req.Athletes,
		CrewA:      CrewSelector{LineupID: req.LineupAID, AthleteIDs: req.LineupA},
		CrewB:      CrewSelector{LineupID: req.LineupBID, AthleteIDs: req.LineupB},
	})
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}
