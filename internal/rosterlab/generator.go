package rosterlab

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"

	"github.com/oarbit/rigger/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	scoreBandDivisor   = 6
)

// Constants for combined score ranges. Scores use the 0-100 scale the
// predictor is calibrated on, with 100 the elite reference.
const (
	eliteRowerMin        = 88.0
	eliteRowerRange      = 9.0
	strongRowerMin       = 76.0
	strongRowerRange     = 12.0
	solidRowerMin        = 64.0
	solidRowerRange      = 12.0
	clubRowerMin         = 52.0
	clubRowerRange       = 12.0
	developingRowerMin   = 40.0
	developingRowerRange = 12.0
	wideBandMin          = 40.0
	wideBandRange        = 55.0
)

// Constants for score band cases.
const (
	caseEliteRower      = 0
	caseStrongRower     = 1
	caseSolidRower      = 2
	caseClubRower       = 3
	caseDevelopingRower = 4
	caseWideBand        = 5
)

// Roster composition constants.
const (
	coxswainShare = 8 // one coxswain per this many athletes
	minCoxswains  = 2
	scoreDecimals = 100 // combined scores are rounded to two decimals
)

// sideCycle spreads side capabilities evenly so every sweep class stays
// riggable no matter which athletes the search picks.
var sideCycle = []string{"port", "starboard", "both"}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateRoster creates a scored roster of rowers plus a few coxswains.
// Coxswains are always included so a saved roster stays usable for coxed
// classes, whatever class this run targets.
func generateRoster(ctx context.Context, config *Config, stats *Stats) (Roster, error) {
	if config.NumAthletes < 1 {
		return Roster{}, fmt.Errorf("at least one athlete is required, got %d", config.NumAthletes)
	}

	logger.Get().Info(ctx, "generating roster",
		logger.Int("athletes", config.NumAthletes))

	coxswains := config.NumAthletes / coxswainShare
	if coxswains < minCoxswains {
		coxswains = minCoxswains
	}
	if half := config.NumAthletes / 2; coxswains > half {
		coxswains = half
	}
	rowers := config.NumAthletes - coxswains

	athletes := make([]Athlete, 0, config.NumAthletes)
	for i := 0; i < rowers; i++ {
		athletes = append(athletes, Athlete{
			ID:             uuid.New().String(),
			DisplayName:    fmt.Sprintf("Rower %02d", i+1),
			CombinedScore:  generateVariedScore(),
			SideCapability: sideCycle[i%len(sideCycle)],
		})
	}
	for i := 0; i < coxswains; i++ {
		athletes = append(athletes, Athlete{
			ID:             uuid.New().String(),
			DisplayName:    fmt.Sprintf("Coxswain %d", i+1),
			CombinedScore:  generateVariedScore(),
			IsCoxswain:     true,
			SideCapability: "both",
		})
	}

	stats.AthletesGenerated = len(athletes)
	logger.Get().Info(ctx, "generated roster",
		logger.Int("rowers", rowers),
		logger.Int("coxswains", coxswains))

	return Roster{Athletes: athletes}, nil
}

// generateVariedScore creates a combined score with varied distribution.
func generateVariedScore() float64 {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(scoreBandDivisor))

	var score float64
	switch randNum.Int64() {
	case caseEliteRower:
		// Elite rowers (88 - 97)
		score = eliteRowerMin + getRandomFloat()*eliteRowerRange
	case caseStrongRower:
		// Strong rowers (76 - 88)
		score = strongRowerMin + getRandomFloat()*strongRowerRange
	case caseSolidRower:
		// Solid rowers (64 - 76)
		score = solidRowerMin + getRandomFloat()*solidRowerRange
	case caseClubRower:
		// Club rowers (52 - 64)
		score = clubRowerMin + getRandomFloat()*clubRowerRange
	case caseDevelopingRower:
		// Developing rowers (40 - 52)
		score = developingRowerMin + getRandomFloat()*developingRowerRange
	case caseWideBand:
		// Random across the full range (40 - 95)
		score = wideBandMin + getRandomFloat()*wideBandRange
	default:
		score = wideBandMin + getRandomFloat()*wideBandRange
	}

	return math.Round(score*scoreDecimals) / scoreDecimals
}

// buildConstraints derives a constraint set whose effect is visible from
// the outside: the fastest rower is excluded and the slowest required, so
// every returned lineup proves constraints outrank raw fitness. Rosters
// too small to spare an exclusion get no constraints.
func buildConstraints(cfg BoatConfiguration, roster Roster) Constraints {
	totalSeats := cfg.SeatCount
	if cfg.HasCoxswain {
		totalSeats++
	}
	if len(roster.Athletes)-1 < totalSeats {
		return Constraints{}
	}

	fastest, slowest := -1, -1
	for i, a := range roster.Athletes {
		if a.IsCoxswain {
			continue
		}
		if fastest < 0 || a.CombinedScore > roster.Athletes[fastest].CombinedScore {
			fastest = i
		}
	}
	for i, a := range roster.Athletes {
		if a.IsCoxswain || i == fastest {
			continue
		}
		if slowest < 0 || a.CombinedScore < roster.Athletes[slowest].CombinedScore {
			slowest = i
		}
	}
	if fastest < 0 || slowest < 0 {
		return Constraints{}
	}

	return Constraints{
		RequiredAthleteIDs: []string{roster.Athletes[slowest].ID},
		ExcludedAthleteIDs: []string{roster.Athletes[fastest].ID},
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
