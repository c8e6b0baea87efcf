package rosterlab

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
)

// scoreAgreementEpsilon bounds the allowed drift between a ranked score
// and the same lineup re-scored through /evaluate.
const scoreAgreementEpsilon = 1e-6

// fetchBoatCatalog retrieves the boat catalog and validates the requested
// class and course against it.
func fetchBoatCatalog(ctx context.Context, config *Config) (BoatConfiguration, error) {
	log.Printf("⛵ Fetching boat catalog...")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/boats"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return BoatConfiguration{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return BoatConfiguration{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return BoatConfiguration{}, decodeAPIError(resp.StatusCode, body)
	}

	var catalog BoatsResponse
	if err := unmarshalJSON(body, &catalog); err != nil {
		return BoatConfiguration{}, fmt.Errorf("failed to parse response: %w", err)
	}

	var boatCfg BoatConfiguration
	found := false
	supported := make([]string, 0, len(catalog.BoatClasses))
	for _, cfg := range catalog.BoatClasses {
		supported = append(supported, cfg.Class)
		if cfg.Class == config.BoatClass {
			boatCfg = cfg
			found = true
		}
	}
	if !found {
		return BoatConfiguration{}, fmt.Errorf("boat class %q not in catalog (supported: %v)", config.BoatClass, supported)
	}

	courseOK := false
	for _, course := range catalog.CourseTypes {
		if course == config.CourseType {
			courseOK = true
			break
		}
	}
	if !courseOK {
		return BoatConfiguration{}, fmt.Errorf("course type %q not in catalog (supported: %v)", config.CourseType, catalog.CourseTypes)
	}

	log.Printf("✅ Boat class %s: %d seats, coxswain=%t, sculling=%t",
		boatCfg.Class, boatCfg.SeatCount, boatCfg.HasCoxswain, boatCfg.Sculling)
	return boatCfg, nil
}

// retrievePredictions predicts a race time for every ranked lineup
// concurrently. Entries that fail stay zero-valued so the result keeps
// index alignment with the input.
func retrievePredictions(ctx context.Context, config *Config, ranked []RankedLineup, stats *Stats) ([]Prediction, error) {
	log.Printf("🏁 Predicting %s times for %d lineups with %d workers...",
		config.CourseType, len(ranked), config.Workers)

	client := newHTTPClient(config.Timeout)

	predictions := make([]Prediction, len(ranked))
	var (
		retrieved int64
		failed    int64
	)

	// Create worker pool
	lineupChan := make(chan int, config.Workers*WorkerChannelMultiplier) // Send indices instead of IDs
	var wg sync.WaitGroup

	workerCount := minInt(config.Workers, len(ranked))
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range lineupChan {
				select {
				case <-ctx.Done():
					return
				default:
					lineupID := ranked[index].LineupID
					prediction, err := retrieveSinglePrediction(ctx, client, config.BaseURL, lineupID, config.CourseType)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to predict lineup %s: %v", shortID(lineupID), err)
						}
						continue
					}

					predictions[index] = prediction
					atomic.AddInt64(&retrieved, 1)
					if config.Verbose {
						log.Printf("📊 Lineup %s: %.1fs [%.1f, %.1f]",
							shortID(lineupID), prediction.PredictedSeconds,
							prediction.Confidence.Low, prediction.Confidence.High)
					}
				}
			}
		}(i)
	}

	// Send lineup indices to workers
	go func() {
		defer close(lineupChan)
		for i := range ranked {
			select {
			case <-ctx.Done():
				return
			case lineupChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	stats.PredictionsRetrieved = int(atomic.LoadInt64(&retrieved))
	stats.PredictionsFailed = int(atomic.LoadInt64(&failed))

	if stats.PredictionsRetrieved == 0 {
		return nil, fmt.Errorf("no predictions retrieved for %d lineups", len(ranked))
	}

	log.Printf(`✅ Prediction retrieval completed:
   Retrieved: %d
   Failed: %d
`, stats.PredictionsRetrieved, stats.PredictionsFailed)

	return predictions, nil
}

// retrieveSinglePrediction predicts the race time of one cached lineup.
func retrieveSinglePrediction(ctx context.Context, client *HTTPClient, baseURL, lineupID, courseType string) (Prediction, error) {
	request := PredictRequest{LineupID: lineupID, CourseType: courseType}

	var prediction Prediction
	if err := postJSON(ctx, client, baseURL+"/predict", request, &prediction); err != nil {
		return Prediction{}, err
	}
	return prediction, nil
}

// evaluateTopLineup re-scores the best ranked lineup through /evaluate and
// checks the result agrees with the score the search reported.
func evaluateTopLineup(ctx context.Context, config *Config, roster Roster, best RankedLineup, stats *Stats) error {
	log.Printf("🔬 Re-scoring the best lineup through /evaluate...")

	client := newHTTPClient(config.Timeout)

	request := EvaluateRequest{
		BoatClass: config.BoatClass,
		Athletes:  roster.Athletes,
		Lineup:    best.Lineup,
	}

	var result FitnessResult
	if err := postJSON(ctx, client, config.BaseURL+"/evaluate", request, &result); err != nil {
		return fmt.Errorf("evaluate request failed: %w", err)
	}

	stats.EvaluationsRun++

	if math.Abs(result.Score-best.Score) > scoreAgreementEpsilon {
		stats.VerificationWarnings++
		log.Printf("⚠️  Evaluate score %.6f disagrees with ranked score %.6f", result.Score, best.Score)
		return nil
	}

	log.Printf("✅ Evaluate agrees with the ranked score (%.2f)", best.Score)
	return nil
}

// compareTopLineups races the two best distinct crews against each other
// and checks the favored crew matches their score ordering.
func compareTopLineups(ctx context.Context, config *Config, ranked []RankedLineup, stats *Stats) error {
	a, b, ok := bestDistinctPair(ranked)
	if !ok {
		log.Printf("⚠️  Fewer than two lineups available, skipping comparison")
		return nil
	}

	log.Printf("🥇 Comparing lineup %s against lineup %s over %s...",
		shortID(a.LineupID), shortID(b.LineupID), config.CourseType)

	client := newHTTPClient(config.Timeout)

	request := CompareRequest{
		CourseType: config.CourseType,
		LineupAID:  a.LineupID,
		LineupBID:  b.LineupID,
	}

	var comparison Comparison
	if err := postJSON(ctx, client, config.BaseURL+"/compare", request, &comparison); err != nil {
		return fmt.Errorf("compare request failed: %w", err)
	}

	stats.ComparisonsRun++

	log.Printf(`✅ Comparison completed:
   Lineup A: %.1fs (score %.2f)
   Lineup B: %.1fs (score %.2f)
   Favored: %s (margin %.2fs, confidence %s)
`, comparison.TimeA.PredictedSeconds, a.Score,
		comparison.TimeB.PredictedSeconds, b.Score,
		comparison.Favored, comparison.MarginSeconds, comparison.Confidence)

	// Predicted times fall as the rower average climbs, so the crew with
	// the higher average can never lose the head-to-head.
	if comparison.Favored == "B" && a.Breakdown.AverageScore > b.Breakdown.AverageScore+scoreAgreementEpsilon {
		stats.VerificationWarnings++
		log.Printf("⚠️  Lineup B favored although lineup A has the higher rower average")
	}
	return nil
}

// bestDistinctPair picks the two highest-scored lineups with different
// crews. Runs often converge on the same boat, so the runner-up is the
// best lineup whose seat assignment actually differs.
func bestDistinctPair(ranked []RankedLineup) (RankedLineup, RankedLineup, bool) {
	if len(ranked) < 2 {
		return RankedLineup{}, RankedLineup{}, false
	}

	order := make([]int, len(ranked))
	for i := range order {
		order[i] = i
	}
	sortByScoreDesc(ranked, order)

	best := ranked[order[0]]
	for _, idx := range order[1:] {
		candidate := ranked[idx]
		if lineupSignature(candidate.Lineup) != lineupSignature(best.Lineup) {
			return best, candidate, true
		}
	}

	// Every crew is identical; compare the top two anyway.
	return best, ranked[order[1]], true
}
