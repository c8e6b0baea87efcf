package search

import (
	"math/rand"

	"github.com/oarbit/rigger/internal/domain/boat"
	"github.com/oarbit/rigger/internal/domain/constraint"
	"github.com/oarbit/rigger/internal/domain/crew"
	"github.com/oarbit/rigger/internal/domain/fitness"
)

// tournament selects the fittest of a small uniformly sampled arena.
func tournament(rng *rand.Rand, scored []fitness.Result, size int) fitness.Result {
	best := scored[rng.Intn(len(scored))]
	for i := 1; i < size; i++ {
		if candidate := scored[rng.Intn(len(scored))]; candidate.Score > best.Score {
			best = candidate
		}
	}
	return best
}

// crossover copies a contiguous seat range from parent a and the rest
// from parent b, then repairs the child back to feasibility.
func crossover(rng *rand.Rand, cfg boat.Configuration, a, b crew.Lineup, roster crew.Roster, cons constraint.Set) crew.Lineup {
	n := cfg.SeatCount
	from := rng.Intn(n)
	to := from + rng.Intn(n-from)

	seats := make([]string, n)
	for i := range seats {
		if i >= from && i <= to {
			seats[i] = a.Seats[i].AthleteID
		} else {
			seats[i] = b.Seats[i].AthleteID
		}
	}

	cox := a.CoxswainID
	if rng.Intn(2) == 1 {
		cox = b.CoxswainID
	}

	return repair(rng, cfg, seats, cox, a, roster, cons)
}

// repair restores the feasibility invariants after crossover: duplicate
// athletes keep their first seat by seat order, excluded athletes are
// purged, required athletes lost in the recombination re-enter at the
// seat nearest the one they held in the donor parent, and any seat left
// open refills from the unused pool.
func repair(rng *rand.Rand, cfg boat.Configuration, seats []string, cox string, donor crew.Lineup, roster crew.Roster, cons constraint.Set) crew.Lineup {
	used := make(map[string]bool, len(seats)+1)
	if cox != "" && cons.IsExcluded(cox) {
		cox = ""
	}
	if cox != "" {
		used[cox] = true
	}

	for i, id := range seats {
		if id == "" {
			continue
		}
		if used[id] || cons.IsExcluded(id) {
			seats[i] = ""
			continue
		}
		used[id] = true
	}

	for _, id := range cons.Required() {
		if used[id] {
			continue
		}
		seat := reseatTarget(seats, cons, donorSeatIndex(donor, id))
		if seat < 0 {
			continue
		}
		if prev := seats[seat]; prev != "" {
			delete(used, prev)
		}
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

	if cfg.HasCoxswain && cox == "" {
		cox = pickCoxswain(rng, roster, cons, used)
	}

	return buildLineup(cfg, seats, cox)
}

// reseatTarget finds where a displaced required athlete re-enters: the
// open seat nearest its donor seat, or failing that the nearest seat
// holding a replaceable non-required athlete.
func reseatTarget(seats []string, cons constraint.Set, target int) int {
	best := -1
	for i, id := range seats {
		if id != "" {
			continue
		}
		if best < 0 || seatDistance(i, target) < seatDistance(best, target) {
			best = i
		}
	}
	if best >= 0 {
		return best
	}
	for i, id := range seats {
		if cons.IsRequired(id) {
			continue
		}
		if best < 0 || seatDistance(i, target) < seatDistance(best, target) {
			best = i
		}
	}
	return best
}

func donorSeatIndex(donor crew.Lineup, id string) int {
	for i := range donor.Seats {
		if donor.Seats[i].AthleteID == id {
			return i
		}
	}
	return 0
}

func seatDistance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// mutate applies per-seat mutation to a copy of the lineup: either a
// side-aware swap of two seats or the replacement of a non-required rower
// with an unused athlete. Neither move can break the required or excluded
// sets. An unpinned coxswain mutates at the same rate.
func mutate(rng *rand.Rand, lineup crew.Lineup, roster crew.Roster, cons constraint.Set, rate float64) crew.Lineup {
	out := lineup.Clone()

	for i := range out.Seats {
		if rng.Float64() >= rate {
			continue
		}
		if rng.Intn(2) == 0 {
			swapSeats(rng, out.Seats, i)
		} else {
			replaceSeat(rng, out, i, roster, cons)
		}
	}

	if out.CoxswainID != "" && cons.CoxswainID() == "" && rng.Float64() < rate {
		used := usedSet(out)
		if pick := pickCoxswain(rng, roster, cons, used); pick != "" {
			out.CoxswainID = pick
		}
	}

	return out
}

// swapSeats exchanges seat i with another seat, preferring a seat on the
// opposite side so a mismatched pair can trade into place in one move.
func swapSeats(rng *rand.Rand, seats []crew.Seat, i int) {
	var opposite, rest []int
	for j := range seats {
		if j == i {
			continue
		}
		if seats[j].Side == seats[i].Side.Opposite() {
			opposite = append(opposite, j)
		} else {
			rest = append(rest, j)
		}
	}

	pool := opposite
	if len(pool) == 0 {
		pool = rest
	}
	if len(pool) == 0 {
		return
	}

	j := pool[rng.Intn(len(pool))]
	seats[i].AthleteID, seats[j].AthleteID = seats[j].AthleteID, seats[i].AthleteID
}

// replaceSeat swaps the occupant of seat i for an unused athlete.
// Required athletes never leave their seats this way.
func replaceSeat(rng *rand.Rand, lineup crew.Lineup, i int, roster crew.Roster, cons constraint.Set) {
	if cons.IsRequired(lineup.Seats[i].AthleteID) {
		return
	}
	used := usedSet(lineup)
	pick := pickAthlete(rng, lineup.Seats[i].Side, roster, cons, used)
	if pick == "" {
		return
	}
	lineup.Seats[i].AthleteID = pick
}

func usedSet(lineup crew.Lineup) map[string]bool {
	used := make(map[string]bool, len(lineup.Seats)+1)
	for _, seat := range lineup.Seats {
		used[seat.AthleteID] = true
	}
	if lineup.CoxswainID != "" {
		used[lineup.CoxswainID] = true
	}
	return used
}
