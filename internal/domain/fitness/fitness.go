// Package fitness scores candidate lineups against athlete records and the
// active constraint set. Higher scores are better.
package fitness

import (
	"github.com/oarbit/rigger/internal/domain/constraint"
	"github.com/oarbit/rigger/internal/domain/crew"
)

// Default scoring configuration constants.
const (
	// defaultSideMismatchPenalty is charged per seat rowed off-side.
	defaultSideMismatchPenalty = 2.5
	// defaultConstraintPenalty dominates the score range so that any
	// constraint breach sinks a lineup below every clean one.
	defaultConstraintPenalty = 1000.0
	// defaultCoxswainWeight scales the coxswain's combined score; steering
	// and calling matter far less than power output.
	defaultCoxswainWeight = 0.1
)

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithSideMismatchPenalty sets the per-seat penalty for off-side rowing.
func WithSideMismatchPenalty(penalty float64) Option {
	return func(e *Evaluator) {
		if penalty >= 0 {
			e.sideMismatchPenalty = penalty
		}
	}
}

// WithConstraintPenalty sets the per-breach penalty for constraint violations.
func WithConstraintPenalty(penalty float64) Option {
	return func(e *Evaluator) {
		if penalty >= 0 {
			e.constraintPenalty = penalty
		}
	}
}

// WithCoxswainWeight sets the coefficient applied to the coxswain's score.
func WithCoxswainWeight(weight float64) Option {
	return func(e *Evaluator) {
		if weight >= 0 {
			e.coxswainWeight = weight
		}
	}
}

// Breakdown itemizes how a fitness score was assembled.
type Breakdown struct {
	AverageScore        float64 `json:"average_score"`
	CoxswainBonus       float64 `json:"coxswain_bonus,omitempty"`
	SideMismatchPenalty float64 `json:"side_mismatch_penalty"`
	ConstraintPenalty   float64 `json:"constraint_penalty"`
	AthleteCount        int     `json:"athlete_count"`
}

// Result pairs a lineup with its score. Created fresh per evaluation.
type Result struct {
	Lineup    crew.Lineup `json:"lineup"`
	Score     float64     `json:"score"`
	Breakdown Breakdown   `json:"breakdown"`
}

// Evaluator computes lineup fitness. It is stateless and safe for
// concurrent use by the search engine's evaluation workers.
type Evaluator struct {
	sideMismatchPenalty float64
	constraintPenalty   float64
	coxswainWeight      float64
}

// New creates an Evaluator with configuration options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		sideMismatchPenalty: defaultSideMismatchPenalty,
		constraintPenalty:   defaultConstraintPenalty,
		coxswainWeight:      defaultCoxswainWeight,
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate scores one lineup:
//
//	score = averageScore + coxswainBonus - sideMismatchPenalty - constraintPenalty
//
// averageScore is the mean combined score of the seated rowers; the coxswain
// is excluded from the mean and contributes a separately weighted bonus.
// Constraint breaches should never survive the search's repair step; the
// penalty is the second line of defense and dominates the score range.
func (e *Evaluator) Evaluate(lineup crew.Lineup, roster crew.Roster, cons constraint.Set) Result {
	var (
		scoreSum   float64
		seated     int
		mismatches int
		breaches   int
	)

	seen := make(map[string]struct{}, len(lineup.Seats)+1)
	for _, seat := range lineup.Seats {
		athlete, ok := roster.Get(seat.AthleteID)
		if !ok {
			breaches++
			continue
		}
		if _, dup := seen[seat.AthleteID]; dup {
			breaches++
			continue
		}
		seen[seat.AthleteID] = struct{}{}

		scoreSum += athlete.CombinedScore
		seated++

		if cons.IsExcluded(seat.AthleteID) {
			breaches++
		}
		if !e.seatMatches(athlete, seat, cons) {
			mismatches++
		}
	}

	var (
		coxBonus   float64
		coxCounted int
	)
	if lineup.CoxswainID != "" {
		if _, dup := seen[lineup.CoxswainID]; dup {
			breaches++
		} else if athlete, ok := roster.Get(lineup.CoxswainID); ok {
			coxBonus = e.coxswainWeight * athlete.CombinedScore
			coxCounted = 1
			if cons.IsExcluded(lineup.CoxswainID) {
				breaches++
			}
		} else {
			breaches++
		}
	}

	for _, id := range cons.Required() {
		if !lineupSeated(lineup, id) {
			breaches++
		}
	}
	if pinned := cons.CoxswainID(); pinned != "" && lineup.CoxswainID != pinned {
		breaches++
	}

	var average float64
	if seated > 0 {
		average = scoreSum / float64(seated)
	}

	breakdown := Breakdown{
		AverageScore:        average,
		CoxswainBonus:       coxBonus,
		SideMismatchPenalty: float64(mismatches) * e.sideMismatchPenalty,
		ConstraintPenalty:   float64(breaches) * e.constraintPenalty,
		AthleteCount:        seated + coxCounted,
	}

	return Result{
		Lineup:    lineup,
		Score:     average + coxBonus - breakdown.SideMismatchPenalty - breakdown.ConstraintPenalty,
		Breakdown: breakdown,
	}
}

// seatMatches reports whether the athlete rows this seat on an acceptable
// side. A side preference override approves the override side specifically;
// the athlete's own capability always remains acceptable.
func (e *Evaluator) seatMatches(athlete crew.Athlete, seat crew.Seat, cons constraint.Set) bool {
	if athlete.SideCapability.Matches(seat.Side) {
		return true
	}
	if override, ok := cons.OverrideFor(athlete.ID); ok {
		return override.Matches(seat.Side)
	}
	return false
}

// lineupSeated reports whether the id occupies a rowing seat. The coxswain
// slot does not satisfy a required seat: a required rower steering the boat
// is still a missing rower.
func lineupSeated(lineup crew.Lineup, id string) bool {
	for _, seat := range lineup.Seats {
		if seat.AthleteID == id {
			return true
		}
	}
	return false
}
