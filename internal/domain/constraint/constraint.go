// Package constraint normalizes coach-supplied lineup constraints into a
// validated set consumed by the fitness evaluator and the search engine.
package constraint

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/oarbit/rigger/internal/domain/boat"
	"github.com/oarbit/rigger/internal/domain/crew"
)

// Raw carries constraints exactly as supplied by the caller.
type Raw struct {
	RequiredAthleteIDs      []string             `json:"required_athlete_ids,omitempty"`
	ExcludedAthleteIDs      []string             `json:"excluded_athlete_ids,omitempty"`
	SidePreferenceOverrides map[string]boat.Side `json:"side_preference_overrides,omitempty"`
	CoxswainAthleteID       string               `json:"coxswain_athlete_id,omitempty"`
}

// Set is the validated constraint set. The zero value means "no constraints".
type Set struct {
	required   []string
	requiredBy map[string]struct{}
	excludedBy map[string]struct{}
	overrides  map[string]boat.Side
	coxswainID string
}

// Normalize validates raw constraints against the boat geometry and roster.
// Required and excluded lists are deduplicated with input order preserved;
// every referenced athlete must exist on the roster.
func Normalize(raw Raw, cfg boat.Configuration, roster crew.Roster) (Set, error) {
	required := lo.Uniq(raw.RequiredAthleteIDs)
	excluded := lo.Uniq(raw.ExcludedAthleteIDs)

	for _, id := range required {
		if !roster.Has(id) {
			return Set{}, fmt.Errorf("%w: required athlete %q not on roster", crew.ErrUnknownAthlete, id)
		}
	}
	for _, id := range excluded {
		if !roster.Has(id) {
			return Set{}, fmt.Errorf("%w: excluded athlete %q not on roster", crew.ErrUnknownAthlete, id)
		}
	}
	for id, side := range raw.SidePreferenceOverrides {
		if !roster.Has(id) {
			return Set{}, fmt.Errorf("%w: side override for athlete %q not on roster", crew.ErrUnknownAthlete, id)
		}
		if _, err := boat.ParseSide(string(side)); err != nil {
			return Set{}, fmt.Errorf("side override for athlete %q: %w", id, err)
		}
	}

	if len(required) > cfg.SeatCount {
		return Set{}, fmt.Errorf("%w: %d required athletes for %d seats",
			ErrTooManyRequired, len(required), cfg.SeatCount)
	}

	excludedBy := lo.SliceToMap(excluded, func(id string) (string, struct{}) { return id, struct{}{} })
	for _, id := range required {
		if _, clash := excludedBy[id]; clash {
			return Set{}, fmt.Errorf("%w: athlete %q is both required and excluded",
				ErrConflictingConstraint, id)
		}
	}

	if cox := raw.CoxswainAthleteID; cox != "" {
		if !cfg.HasCoxswain {
			return Set{}, fmt.Errorf("%w: boat class %q has no coxswain seat", ErrNoCoxswainSeat, cfg.Class)
		}
		athlete, ok := roster.Get(cox)
		if !ok {
			return Set{}, fmt.Errorf("%w: coxswain %q not on roster", crew.ErrUnknownAthlete, cox)
		}
		if !athlete.IsCoxswain {
			return Set{}, fmt.Errorf("%w: athlete %q is not coxswain-capable", ErrInvalidCoxswain, cox)
		}
		if _, clash := excludedBy[cox]; clash {
			return Set{}, fmt.Errorf("%w: coxswain %q is excluded", ErrConflictingConstraint, cox)
		}
		if lo.Contains(required, cox) {
			return Set{}, fmt.Errorf("%w: athlete %q cannot row a required seat and steer",
				ErrConflictingConstraint, cox)
		}
	}

	overrides := make(map[string]boat.Side, len(raw.SidePreferenceOverrides))
	for id, side := range raw.SidePreferenceOverrides {
		overrides[id] = side
	}

	return Set{
		required:   required,
		requiredBy: lo.SliceToMap(required, func(id string) (string, struct{}) { return id, struct{}{} }),
		excludedBy: excludedBy,
		overrides:  overrides,
		coxswainID: raw.CoxswainAthleteID,
	}, nil
}

// Required returns the required athlete ids in input order.
func (s Set) Required() []string {
	return s.required
}

// RequiredCount returns the number of required seat athletes.
func (s Set) RequiredCount() int {
	return len(s.required)
}

// IsRequired reports whether an athlete must be seated.
func (s Set) IsRequired(id string) bool {
	_, ok := s.requiredBy[id]
	return ok
}

// IsExcluded reports whether an athlete must not appear in the lineup.
func (s Set) IsExcluded(id string) bool {
	_, ok := s.excludedBy[id]
	return ok
}

// ExcludedCount returns the number of excluded athletes.
func (s Set) ExcludedCount() int {
	return len(s.excludedBy)
}

// OverrideFor returns the coach-approved side for an athlete, if any.
// An override suppresses the side mismatch penalty for that athlete's seat.
func (s Set) OverrideFor(id string) (boat.Side, bool) {
	side, ok := s.overrides[id]
	return side, ok
}

// CoxswainID returns the pinned coxswain id, or empty when unpinned.
func (s Set) CoxswainID() string {
	return s.coxswainID
}
