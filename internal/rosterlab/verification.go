package rosterlab

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
)

// verifyLineups checks every ranked lineup against the boat geometry, the
// roster and the requested constraints.
func verifyLineups(ctx context.Context, boatCfg BoatConfiguration, roster Roster, constraints Constraints, runs []OptimizeResponse, stats *Stats) error {
	log.Println("🔍 Verifying lineups...")

	index := roster.byID()

	total := 0
	for _, run := range runs {
		for _, problem := range runProblems(run) {
			stats.VerificationWarnings++
			log.Printf("⚠️  Run %s: %s", shortID(run.RunID), problem)
		}

		for _, ranked := range run.Lineups {
			total++
			problems := lineupProblems(boatCfg, index, constraints, ranked)
			if len(problems) == 0 {
				stats.LineupsVerified++
				continue
			}
			stats.VerificationWarnings += len(problems)
			for _, problem := range problems {
				log.Printf("⚠️  Lineup %s: %s", shortID(ranked.LineupID), problem)
			}
		}
	}

	stats.LineupsRanked = total
	if total == 0 {
		return fmt.Errorf("no lineups to verify")
	}

	log.Printf("📊 Distinct crews across runs: %d of %d", countDistinctCrews(runs), total)
	log.Printf("✅ Verified %d of %d lineups", stats.LineupsVerified, total)
	return nil
}

// runProblems checks rank numbering and score ordering within one run.
func runProblems(run OptimizeResponse) []string {
	var problems []string
	if len(run.Lineups) == 0 {
		return append(problems, "run returned no lineups")
	}
	for i, ranked := range run.Lineups {
		if ranked.Rank != i+1 {
			problems = append(problems, fmt.Sprintf("entry %d carries rank %d", i, ranked.Rank))
		}
		if i > 0 && ranked.Score > run.Lineups[i-1].Score+scoreAgreementEpsilon {
			problems = append(problems, fmt.Sprintf("rank %d outscores rank %d", ranked.Rank, run.Lineups[i-1].Rank))
		}
	}
	return problems
}

// lineupProblems lists every invariant one ranked lineup breaks. Off-side
// seating is legal and shows up as a penalty, so it is only flagged when
// the breakdown disagrees with the seats.
func lineupProblems(cfg BoatConfiguration, roster map[string]Athlete, cons Constraints, ranked RankedLineup) []string {
	var problems []string
	lineup := ranked.Lineup

	if len(lineup.Seats) != cfg.SeatCount {
		return append(problems, fmt.Sprintf("%d seats filled in a %d-seat %s",
			len(lineup.Seats), cfg.SeatCount, cfg.Class))
	}

	seen := make(map[string]bool, len(lineup.Seats)+1)
	mismatches := 0
	structural := false
	for i, seat := range lineup.Seats {
		if seat.Number != i+1 {
			problems = append(problems, fmt.Sprintf("seat %d numbered %d", i+1, seat.Number))
			structural = true
		}
		if seat.Side != cfg.SeatSides[i] {
			problems = append(problems, fmt.Sprintf("seat %d rigged %s, class rigs %s",
				seat.Number, seat.Side, cfg.SeatSides[i]))
			structural = true
		}

		athlete, ok := roster[seat.AthleteID]
		if !ok {
			problems = append(problems, fmt.Sprintf("seat %d holds unknown athlete %s", seat.Number, seat.AthleteID))
			structural = true
			continue
		}
		if seen[seat.AthleteID] {
			problems = append(problems, fmt.Sprintf("%s seated twice", athlete.DisplayName))
			structural = true
			continue
		}
		seen[seat.AthleteID] = true

		if !sideMatches(athlete.SideCapability, seat.Side) {
			mismatches++
		}
	}

	coxCount := 0
	switch {
	case cfg.HasCoxswain && lineup.CoxswainID == "":
		problems = append(problems, "coxed class without a coxswain")
		structural = true
	case !cfg.HasCoxswain && lineup.CoxswainID != "":
		problems = append(problems, "coxswain assigned to an uncoxed class")
		structural = true
	case lineup.CoxswainID != "":
		coxCount = 1
		cox, ok := roster[lineup.CoxswainID]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("unknown coxswain %s", lineup.CoxswainID))
			structural = true
		case seen[lineup.CoxswainID]:
			problems = append(problems, fmt.Sprintf("%s both rows and steers", cox.DisplayName))
			structural = true
		case !cox.IsCoxswain && cons.CoxswainAthleteID == "":
			problems = append(problems, fmt.Sprintf("%s steers without coxswain capability", cox.DisplayName))
		}
		if cons.CoxswainAthleteID != "" && lineup.CoxswainID != cons.CoxswainAthleteID {
			problems = append(problems, fmt.Sprintf("pinned coxswain %s not steering", cons.CoxswainAthleteID))
		}
	}

	// Required athletes must hold rowing seats; the coxswain slot does
	// not count as a seat.
	for _, id := range cons.RequiredAthleteIDs {
		if !seatedIn(lineup, id) {
			problems = append(problems, fmt.Sprintf("required athlete %s not seated", displayNameFor(roster, id)))
		}
	}
	for _, id := range cons.ExcludedAthleteIDs {
		if seatedIn(lineup, id) || lineup.CoxswainID == id {
			problems = append(problems, fmt.Sprintf("excluded athlete %s in the boat", displayNameFor(roster, id)))
		}
	}

	b := ranked.Breakdown
	if b.ConstraintPenalty > 0 {
		problems = append(problems, fmt.Sprintf("constraint penalty %.1f on a search-produced lineup", b.ConstraintPenalty))
	}
	if mismatches == 0 && b.SideMismatchPenalty > 0 {
		problems = append(problems, "side penalty reported but every seat matches")
	}
	if mismatches > 0 && b.SideMismatchPenalty == 0 {
		problems = append(problems, fmt.Sprintf("%d off-side seats missing from the breakdown", mismatches))
	}
	if !structural && b.AthleteCount != cfg.SeatCount+coxCount {
		problems = append(problems, fmt.Sprintf("breakdown counts %d athletes, boat carries %d",
			b.AthleteCount, cfg.SeatCount+coxCount))
	}

	expected := b.AverageScore + b.CoxswainBonus - b.SideMismatchPenalty - b.ConstraintPenalty
	if diff := ranked.Score - expected; diff > scoreAgreementEpsilon || diff < -scoreAgreementEpsilon {
		problems = append(problems, fmt.Sprintf("score %.6f does not match its breakdown (%.6f)", ranked.Score, expected))
	}

	return problems
}

// seatedIn reports whether the athlete holds a rowing seat.
func seatedIn(lineup Lineup, id string) bool {
	for _, seat := range lineup.Seats {
		if seat.AthleteID == id {
			return true
		}
	}
	return false
}

// displayNameFor resolves an athlete id to its display name, falling back
// to the id itself.
func displayNameFor(roster map[string]Athlete, id string) string {
	if athlete, ok := roster[id]; ok && athlete.DisplayName != "" {
		return athlete.DisplayName
	}
	return id
}

// sideMatches mirrors the engine's seat matching: a both-capable athlete
// rows anywhere, a sculling seat takes anyone, and an empty capability
// defaults to both.
func sideMatches(capability, rigged string) bool {
	return capability == "" || capability == "both" || rigged == "both" || capability == rigged
}

// lineupSignature identifies a crew by its seat assignment.
func lineupSignature(lineup Lineup) string {
	var b strings.Builder
	for i, seat := range lineup.Seats {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(seat.AthleteID)
	}
	b.WriteByte('|')
	b.WriteString(lineup.CoxswainID)
	return b.String()
}

// countDistinctCrews counts unique seat assignments across every run.
func countDistinctCrews(runs []OptimizeResponse) int {
	sigs := make(map[string]struct{})
	for _, run := range runs {
		for _, ranked := range run.Lineups {
			sigs[lineupSignature(ranked.Lineup)] = struct{}{}
		}
	}
	return len(sigs)
}

// shortID shortens a uuid for log lines.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// sortByScoreDesc orders the index slice by lineup score, best first.
func sortByScoreDesc(ranked []RankedLineup, order []int) {
	sort.Slice(order, func(i, j int) bool {
		return ranked[order[i]].Score > ranked[order[j]].Score
	})
}

// displayTopLineups shows the best lineups with their predicted times.
func displayTopLineups(ranked []RankedLineup, predictions []Prediction, roster Roster, verbose bool) {
	if len(ranked) == 0 {
		return
	}

	order := make([]int, len(ranked))
	for i := range order {
		order[i] = i
	}
	sortByScoreDesc(ranked, order)

	topN := 5
	if len(order) < topN {
		topN = len(order)
	}

	index := roster.byID()

	log.Printf("🏆 Top %d lineups:", topN)
	for i := 0; i < topN; i++ {
		entry := ranked[order[i]]
		line := fmt.Sprintf("   %d. score %.2f (avg %.2f)", i+1, entry.Score, entry.Breakdown.AverageScore)
		if predictions != nil && predictions[order[i]].PredictedSeconds > 0 {
			p := predictions[order[i]]
			line += fmt.Sprintf(", predicted %.1fs [%.1f, %.1f]",
				p.PredictedSeconds, p.Confidence.Low, p.Confidence.High)
		}
		log.Printf("%s  [%s]", line, shortID(entry.LineupID))

		if verbose {
			for _, seat := range entry.Lineup.Seats {
				log.Printf("      seat %d (%s): %s", seat.Number, seat.Side, displayNameFor(index, seat.AthleteID))
			}
			if entry.Lineup.CoxswainID != "" {
				log.Printf("      coxswain: %s", displayNameFor(index, entry.Lineup.CoxswainID))
			}
		}
	}

	if verbose {
		avgScore := calculateAverageScore(ranked)
		log.Printf(`📊 Score statistics:
   Average: %.3f
   Maximum: %.3f
   Minimum: %.3f
`, avgScore, ranked[order[0]].Score, ranked[order[len(order)-1]].Score)
	}
}

// calculateAverageScore calculates the average score across lineups.
func calculateAverageScore(ranked []RankedLineup) float64 {
	if len(ranked) == 0 {
		return 0
	}

	sum := 0.0
	for _, entry := range ranked {
		sum += entry.Score
	}

	return sum / float64(len(ranked))
}
