package crew

import (
	"strings"

	"github.com/samber/lo"

	"github.com/oarbit/rigger/internal/domain/boat"
)

// Seat is one filled seat of a lineup. Number is 1-based from the bow.
type Seat struct {
	Number    int       `json:"seat"`
	AthleteID string    `json:"athlete_id"`
	Side      boat.Side `json:"side"`
}

// Lineup assigns an athlete to every seat of a shell, plus the coxswain
// slot on coxed classes. Seats are ordered by seat number.
type Lineup struct {
	Seats      []Seat `json:"seats"`
	CoxswainID string `json:"coxswain_id,omitempty"`
}

// SeatedIDs returns the rowing athletes in seat order, excluding the coxswain.
func (l Lineup) SeatedIDs() []string {
	return lo.Map(l.Seats, func(s Seat, _ int) string { return s.AthleteID })
}

// AthleteIDs returns every athlete in the lineup, coxswain last.
func (l Lineup) AthleteIDs() []string {
	ids := l.SeatedIDs()
	if l.CoxswainID != "" {
		ids = append(ids, l.CoxswainID)
	}
	return ids
}

// Has reports whether the athlete occupies a seat or the coxswain slot.
func (l Lineup) Has(id string) bool {
	if id == l.CoxswainID && id != "" {
		return true
	}
	return lo.ContainsBy(l.Seats, func(s Seat) bool { return s.AthleteID == id })
}

// Clone returns a deep copy safe for independent mutation.
func (l Lineup) Clone() Lineup {
	seats := make([]Seat, len(l.Seats))
	copy(seats, l.Seats)
	return Lineup{Seats: seats, CoxswainID: l.CoxswainID}
}

// Signature is the seat-assignment identity of the lineup: two lineups with
// the same athletes in the same seats and the same coxswain share one
// signature. Used to deduplicate search results.
func (l Lineup) Signature() string {
	var b strings.Builder
	for i, s := range l.Seats {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s.AthleteID)
	}
	b.WriteByte('|')
	b.WriteString(l.CoxswainID)
	return b.String()
}
