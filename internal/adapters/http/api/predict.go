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

// defaultCourseType is assumed when a prediction request names no course.
const defaultCourseType = "2000m"

// PredictDependencies defines the interface for race time prediction requests.
type PredictDependencies interface {
	Predict(ctx context.Context, params PredictParams) (predict.Prediction, error)
}

// PredictHandler handles race time prediction requests.
type PredictHandler struct {
	deps PredictDependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// predictRequest mirrors the OpenAPI schema for POST /predict. The crew is
// either a stored lineup_id, a subset of athlete_ids, or the whole athletes
// list when neither is set.
type predictRequest struct {
	BoatClass  string         `json:"boat_class"`
	CourseType string         `json:"course_type,omitempty"`
	Athletes   []crew.Athlete `json:"athletes,omitempty"`
	AthleteIDs []string       `json:"athlete_ids,omitempty"`
	LineupID   string         `json:"lineup_id,omitempty"`
}

func (p predictRequest) validate() error {
	if p.LineupID != "" {
		return nil
	}
	switch {
	case p.BoatClass == "":
		return errors.New("missing boat_class")
	case len(p.Athletes) == 0:
		return errors.New("missing athletes")
	}
	return nil
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.CourseType == "" {
		req.CourseType = defaultCourseType
	}

	prediction, err := h.deps.Predict(r.Context(), PredictParams{
		BoatClass:  req.BoatClass,
		CourseType: req.CourseType,
		Athletes:   req.Athletes,
		Crew:       CrewSelector{LineupID: req.LineupID, AthleteIDs: req.AthleteIDs},
	})
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}
