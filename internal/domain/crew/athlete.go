// Package crew contains the athlete and lineup models passed between layers.
package crew

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/oarbit/rigger/internal/domain/boat"
)

// Athlete is one scored rower or coxswain as supplied by the ranking system.
// Fields mirror the OpenAPI schema for athlete payloads.
type Athlete struct {
	ID             string    `json:"id"`
	DisplayName    string    `json:"display_name,omitempty"`
	CombinedScore  float64   `json:"combined_score"`
	IsCoxswain     bool      `json:"is_coxswain,omitempty"`
	SideCapability boat.Side `json:"side_capability,omitempty"`
}

// Roster is an indexed, read-only collection of available athletes.
// Build one per optimization or prediction call; it is never persisted.
type Roster struct {
	athletes []Athlete
	byID     map[string]Athlete
}

// NewRoster indexes athletes by id. Athletes without a side capability
// default to Both. Duplicate ids and unknown side capabilities are rejected.
func NewRoster(athletes []Athlete) (Roster, error) {
	indexed := make([]Athlete, len(athletes))
	byID := make(map[string]Athlete, len(athletes))
	for i, a := range athletes {
		if a.ID == "" {
			return Roster{}, fmt.Errorf("%w: athlete at index %d", ErrMissingAthleteID, i)
		}
		if a.SideCapability == "" {
			a.SideCapability = boat.Both
		} else if _, err := boat.ParseSide(string(a.SideCapability)); err != nil {
			return Roster{}, fmt.Errorf("athlete %q: %w", a.ID, err)
		}
		if _, dup := byID[a.ID]; dup {
			return Roster{}, fmt.Errorf("%w: %q", ErrDuplicateAthlete, a.ID)
		}
		byID[a.ID] = a
		indexed[i] = a
	}
	return Roster{athletes: indexed, byID: byID}, nil
}

// Len returns the number of athletes on the roster.
func (r Roster) Len() int {
	return len(r.athletes)
}

// Athletes returns the athletes in input order.
func (r Roster) Athletes() []Athlete {
	return r.athletes
}

// Get returns the athlete with the given id.
func (r Roster) Get(id string) (Athlete, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// Has reports whether an athlete id is on the roster.
func (r Roster) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// IDs returns all athlete ids in input order.
func (r Roster) IDs() []string {
	return lo.Map(r.athletes, func(a Athlete, _ int) string { return a.ID })
}

// Coxswains returns the coxswain-capable athletes in input order.
func (r Roster) Coxswains() []Athlete {
	return lo.Filter(r.athletes, func(a Athlete, _ int) bool { return a.IsCoxswain })
}

// MeanScore returns the average combined score across the whole roster,
// or zero for an empty roster.
func (r Roster) MeanScore() float64 {
	if len(r.athletes) == 0 {
		return 0
	}
	sum := lo.SumBy(r.athletes, func(a Athlete) float64 { return a.CombinedScore })
	return sum / float64(len(r.athletes))
}
