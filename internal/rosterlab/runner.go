package rosterlab

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oarbit/rigger/pkg/logger"
)

// File permission constants.
const (
	directoryPermission  = 0750
	rosterFilePermission = 0600
)

// Run executes the complete roster lab.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting rigger roster lab",
		logger.String("baseURL", config.BaseURL),
		logger.String("boatClass", config.BoatClass),
		logger.String("courseType", config.CourseType),
		logger.Int("athletes", config.NumAthletes),
		logger.Int("runs", config.Runs),
		logger.Int("topN", config.TopN),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Bool("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Fetch the boat catalog and validate the class and course
	boatCfg, err := fetchBoatCatalog(ctx, config)
	if err != nil {
		return fmt.Errorf("boat catalog retrieval failed: %w", err)
	}

	// Step 3: Load or generate the roster
	roster, generated, err := loadOrGenerateRoster(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("roster preparation failed: %w", err)
	}

	// Step 4: Derive constraints from the roster
	constraints := buildConstraints(boatCfg, roster)
	logConstraints(ctx, roster, constraints)

	// Step 5: Run optimizations concurrently
	runs, err := runOptimizations(ctx, config, roster, constraints, stats)
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	// Step 6: Verify ranked lineups
	if err := verifyLineups(ctx, boatCfg, roster, constraints, runs, stats); err != nil {
		return fmt.Errorf("lineup verification failed: %w", err)
	}

	ranked := flattenLineups(runs)

	// Step 7: Cross-check the best lineup through /evaluate
	if err := evaluateTopLineup(ctx, config, roster, bestLineup(ranked), stats); err != nil {
		return fmt.Errorf("evaluation cross-check failed: %w", err)
	}

	// Step 8: Retrieve predictions concurrently
	predictions, err := retrievePredictions(ctx, config, ranked, stats)
	if err != nil {
		return fmt.Errorf("prediction retrieval failed: %w", err)
	}

	// Step 9: Compare the two best distinct lineups
	if err := compareTopLineups(ctx, config, ranked, stats); err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	// Step 10: Display the podium and save the roster
	displayTopLineups(ranked, predictions, roster, config.Verbose)

	if generated || config.OutputFile != "" {
		if err := saveRosterToFile(ctx, config, roster); err != nil {
			logger.Get().Warn(ctx, "failed to save roster to file", logger.Error(err))
		}
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "lab completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running and reports ready.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	var health healthStatus
	if err := unmarshalJSON(body, &health); err != nil {
		return fmt.Errorf("failed to parse health response: %w", err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("service reports status %q", health.Status)
	}

	logger.Get().Info(ctx, "service is healthy",
		logger.String("service", health.Service),
		logger.String("version", health.Version))
	return nil
}

// loadOrGenerateRoster loads the configured roster file when one is set
// and generates a fresh roster otherwise. The second return reports
// whether the roster is new and worth saving.
func loadOrGenerateRoster(ctx context.Context, config *Config, stats *Stats) (Roster, bool, error) {
	if config.RosterFile == "" {
		roster, err := generateRoster(ctx, config, stats)
		return roster, err == nil, err
	}

	data, err := os.ReadFile(config.RosterFile)
	if err != nil {
		return Roster{}, false, fmt.Errorf("failed to read roster file: %w", err)
	}

	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return Roster{}, false, fmt.Errorf("failed to parse roster file: %w", err)
	}
	if len(roster.Athletes) == 0 {
		return Roster{}, false, fmt.Errorf("roster file %s holds no athletes", config.RosterFile)
	}

	logger.Get().Info(ctx, "loaded roster from file",
		logger.String("rosterFile", config.RosterFile),
		logger.Int("athletes", len(roster.Athletes)))
	return roster, false, nil
}

// logConstraints reports the derived constraint set.
func logConstraints(ctx context.Context, roster Roster, cons Constraints) {
	if len(cons.RequiredAthleteIDs) == 0 && len(cons.ExcludedAthleteIDs) == 0 {
		logger.Get().Info(ctx, "roster too small for constraints, optimizing unconstrained")
		return
	}

	index := roster.byID()
	for _, id := range cons.RequiredAthleteIDs {
		athlete := index[id]
		logger.Get().Info(ctx, "requiring athlete",
			logger.String("athlete", athlete.DisplayName),
			logger.Float64("score", athlete.CombinedScore))
	}
	for _, id := range cons.ExcludedAthleteIDs {
		athlete := index[id]
		logger.Get().Info(ctx, "excluding athlete",
			logger.String("athlete", athlete.DisplayName),
			logger.Float64("score", athlete.CombinedScore))
	}
}

// flattenLineups collects every ranked lineup across runs in run order.
func flattenLineups(runs []OptimizeResponse) []RankedLineup {
	var ranked []RankedLineup
	for _, run := range runs {
		ranked = append(ranked, run.Lineups...)
	}
	return ranked
}

// bestLineup returns the highest-scored lineup.
func bestLineup(ranked []RankedLineup) RankedLineup {
	best := ranked[0]
	for _, entry := range ranked[1:] {
		if entry.Score > best.Score {
			best = entry
		}
	}
	return best
}

// saveRosterToFile saves the roster to a YAML file.
func saveRosterToFile(ctx context.Context, config *Config, roster Roster) error {
	if len(roster.Athletes) == 0 {
		return fmt.Errorf("no athletes to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_roster_" + timestamp + ".yaml"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := yaml.Marshal(roster)
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}

	if err := os.WriteFile(filename, data, rosterFilePermission); err != nil {
		return fmt.Errorf("failed to write roster file: %w", err)
	}

	logger.Get().Info(ctx, "roster saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final lab statistics.
func displayFinalStats(stats *Stats) {
	var verifiedRate float64
	if stats.LineupsRanked > 0 {
		verifiedRate = float64(stats.LineupsVerified) / float64(stats.LineupsRanked) * PercentageMultiplier
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("athletesGenerated", stats.AthletesGenerated),
		logger.Int("optimizeRuns", stats.OptimizeRuns),
		logger.Int("optimizeFailed", stats.OptimizeFailed),
		logger.Int("lineupsRanked", stats.LineupsRanked),
		logger.Int("lineupsVerified", stats.LineupsVerified),
		logger.Int("verificationWarnings", stats.VerificationWarnings),
		logger.Int("evaluationsRun", stats.EvaluationsRun),
		logger.Int("predictionsRetrieved", stats.PredictionsRetrieved),
		logger.Int("predictionsFailed", stats.PredictionsFailed),
		logger.Int("comparisonsRun", stats.ComparisonsRun),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("verifiedRate", verifiedRate))
}
