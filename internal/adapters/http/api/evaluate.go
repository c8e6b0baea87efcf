// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/oarbit/rigger/internal/domain/boat"
	"github.com/oarbit/rigger/internal/domain/crew"
	"github.com/oarbit/rigger/internal/domain/fitness"
)

// EvaluateDependencies defines the interface for lineup evaluation requests.
type EvaluateDependencies interface {
	Evaluate(ctx context.Context, boatClass string, athletes []crew.Athlete, lineup crew.Lineup) (fitness.Result, error)
}

// EvaluateHandler handles explicit lineup scoring requests.
type EvaluateHandler struct {
	deps EvaluateDependencies
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps EvaluateDependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

// evaluateRequest mirrors the OpenAPI schema for POST /evaluate.
type evaluateRequest struct {
	BoatClass string         `json:"boat_class"`
	Athletes  []crew.Athlete `json:"athletes"`
	Lineup    lineupBody     `json:"lineup"`
}

// lineupBody carries a seat assignment in request bodies.
type lineupBody struct {
	Seats      []crew.Seat `json:"seats"`
	CoxswainID string      `json:"coxswain_id,omitempty"`
}

func (b lineupBody) toLineup() crew.Lineup {
	return crew.Lineup{Seats: b.Seats, CoxswainID: b.CoxswainID}
}

// validateSeats rejects seats outside the wire vocabulary. Which side a
// seat should rig to is a scoring question, not a decoding one, so only
// unparseable values fail here.
func (b lineupBody) validateSeats() error {
	for _, s := range b.Seats {
		if s.Number < 1 {
			return fmt.Errorf("%w: %d", boat.ErrInvalidSeat, s.Number)
		}
		if s.Side == "" {
			continue
		}
		if _, err := boat.ParseSide(string(s.Side)); err != nil {
			return fmt.Errorf("seat %d: %w", s.Number, err)
		}
	}
	return nil
}

func (e evaluateRequest) validate() error {
	switch {
	case e.BoatClass == "":
		return errors.New("missing boat_class")
	case len(e.Athletes) == 0:
		return errors.New("missing athletes")
	case len(e.Lineup.Seats) == 0:
		return errors.New("missing lineup seats")
	}
	return nil
}

// HandleEvaluate handles POST /evaluate requests.
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.Lineup.validateSeats(); err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}

	result, err := h.deps.Evaluate(r.Context(), req.BoatClass, req.Athletes, req.Lineup.toLineup())
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
