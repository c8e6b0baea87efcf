package search

import (
	"fmt"
	"math/rand"

	"github.com/samber/lo"

	"github.com/oarbit/rigger/internal/domain/boat"
	"github.com/oarbit/rigger/internal/domain/constraint"
	"github.com/oarbit/rigger/internal/domain/crew"
)

// checkFeasible rejects roster/constraint combinations that no lineup can
// satisfy, before any generation runs. A coxed class needs one athlete on
// top of the rowing seats to steer, and that athlete must be
// coxswain-capable and free of a required rowing seat.
func checkFeasible(cfg boat.Configuration, roster crew.Roster, cons constraint.Set) error {
	total := cfg.SeatCount
	if cfg.HasCoxswain {
		total++
	}

	pinned := 0
	if cons.CoxswainID() != "" {
		pinned = 1
	}
	if n := cons.RequiredCount() + pinned; n > total {
		return fmt.Errorf("%w: %d athletes are pinned to a %d-seat boat", ErrInfeasibleConstraints, n, total)
	}

	available := lo.CountBy(roster.Athletes(), func(a crew.Athlete) bool {
		return !cons.IsExcluded(a.ID)
	})
	if available < total {
		return fmt.Errorf("%w: only %d of %d athletes are available for %d seats",
			ErrInfeasibleConstraints, available, roster.Len(), total)
	}

	if cfg.HasCoxswain {
		steerers := lo.CountBy(roster.Coxswains(), func(a crew.Athlete) bool {
			return !cons.IsExcluded(a.ID) && !cons.IsRequired(a.ID)
		})
		if steerers == 0 {
			return fmt.Errorf("%w: no available coxswain for class %q", ErrInfeasibleConstraints, cfg.Class)
		}
	}

	return nil
}

// seedPopulation builds the initial generation. Every member is
// constraint-feasible by construction.
func seedPopulation(rng *rand.Rand, cfg boat.Configuration, roster crew.Roster, cons constraint.Set, size int) []crew.Lineup {
	pop := make([]crew.Lineup, size)
	for i := range pop {
		pop[i] = seedLineup(rng, cfg, roster, cons)
	}
	return pop
}

// seedLineup builds one candidate: the coxswain slot is settled first so a
// rowing seat cannot consume the only steerer, required athletes claim
// seats next, and the remaining seats fill from the non-excluded pool with
// a preference for side-matched athletes.
func seedLineup(rng *rand.Rand, cfg boat.Configuration, roster crew.Roster, cons constraint.Set) crew.Lineup {
	seats := make([]string, cfg.SeatCount)
	used := make(map[string]bool, cfg.SeatCount+1)

	cox := ""
	if cfg.HasCoxswain {
		cox = cons.CoxswainID()
		if cox == "" {
			cox = pickCoxswain(rng, roster, cons, used)
		}
		if cox != "" {
			used[cox] = true
		}
	}

	required := append([]string(nil), cons.Required()...)
	rng.Shuffle(len(required), func(i, j int) {
		required[i], required[j] = required[j], required[i]
	})
	for _, id := range required {
		athlete, _ := roster.Get(id)
		seat := pickSeat(rng, cfg, seats, athlete, cons)
		seats[seat] = id
		used[id] = true
	}

	for i, id := range seats {
		if id != "" {
			continue
		}
		pick := pickAthlete(rng, cfg.SeatSides[i], roster, cons, used)
		seats[i] = pick
		if pick != "" {
			used[pick] = true
		}
	}

	return buildLineup(cfg, seats, cox)
}

// pickSeat chooses an open seat for an athlete, preferring seats whose
// side the athlete can row, with a uniform tie-break for diversity.
func pickSeat(rng *rand.Rand, cfg boat.Configuration, seats []string, athlete crew.Athlete, cons constraint.Set) int {
	var open, matched []int
	for i, id := range seats {
		if id != "" {
			continue
		}
		open = append(open, i)
		if sideOK(athlete, cfg.SeatSides[i], cons) {
			matched = append(matched, i)
		}
	}
	if len(matched) > 0 {
		return matched[rng.Intn(len(matched))]
	}
	return open[rng.Intn(len(open))]
}

// pickAthlete samples an unused, non-excluded athlete for a seat,
// preferring side-matched candidates. Returns "" when the pool is empty.
func pickAthlete(rng *rand.Rand, side boat.Side, roster crew.Roster, cons constraint.Set, used map[string]bool) string {
	var pool, matched []string
	for _, athlete := range roster.Athletes() {
		if used[athlete.ID] || cons.IsExcluded(athlete.ID) {
			continue
		}
		pool = append(pool, athlete.ID)
		if sideOK(athlete, side, cons) {
			matched = append(matched, athlete.ID)
		}
	}
	if len(matched) > 0 {
		return matched[rng.Intn(len(matched))]
	}
	if len(pool) > 0 {
		return pool[rng.Intn(len(pool))]
	}
	return ""
}

// pickCoxswain samples an eligible steerer: coxswain-capable, not
// excluded, and not claimed by a required rowing seat.
func pickCoxswain(rng *rand.Rand, roster crew.Roster, cons constraint.Set, used map[string]bool) string {
	candidates := lo.Filter(roster.Coxswains(), func(a crew.Athlete, _ int) bool {
		return !cons.IsExcluded(a.ID) && !cons.IsRequired(a.ID) && !used[a.ID]
	})
	if len(candidates) == 0 {
		return ""
	}
	return candidates[rng.Intn(len(candidates))].ID
}

// sideOK mirrors the evaluator's seat matching: the athlete's natural
// capability or an explicit side override makes a seat acceptable.
func sideOK(athlete crew.Athlete, side boat.Side, cons constraint.Set) bool {
	if athlete.SideCapability.Matches(side) {
		return true
	}
	if override, ok := cons.OverrideFor(athlete.ID); ok {
		return override.Matches(side)
	}
	return false
}

// buildLineup materializes a seat-id vector into a lineup with the
// class's side pattern.
func buildLineup(cfg boat.Configuration, seats []string, cox string) crew.Lineup {
	lineup := crew.Lineup{
		Seats:      make([]crew.Seat, len(seats)),
		CoxswainID: cox,
	}
	for i, id := range seats {
		lineup.Seats[i] = crew.Seat{
			Number:    i + 1,
			AthleteID: id,
			Side:      cfg.SeatSides[i],
		}
	}
	return lineup
}
