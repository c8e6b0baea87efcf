// Package search evolves boat lineups with a constraint-aware genetic
// algorithm: feasible seeding, tournament selection, contiguous-range
// crossover with repair, side-aware mutation, and elitist survival.
package search

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/oarbit/rigger/internal/domain/boat"
	"github.com/oarbit/rigger/internal/domain/constraint"
	"github.com/oarbit/rigger/internal/domain/crew"
	"github.com/oarbit/rigger/internal/domain/fitness"
	"github.com/oarbit/rigger/pkg/logger"
	"github.com/oarbit/rigger/pkg/metrics"
)

// Default engine configuration constants. These mirror the engine knobs in
// internal/config and apply when no option overrides them.
const (
	defaultGenerations      = 100
	defaultPopulationSize   = 50
	defaultTopN             = 5
	defaultMutationRate     = 0.08
	defaultCrossoverRate    = 0.85
	defaultTournamentSize   = 3
	defaultEliteCount       = 1
	defaultStagnationWindow = 15
	maxWorkers              = 64
	workerChannelMultiplier = 2 // buffered slots per evaluation worker
)

// RankedLineup is one optimization result: a candidate lineup, its score
// breakdown, and its 1-based position in the returned ordering.
type RankedLineup struct {
	Rank      int               `json:"rank"`
	Lineup    crew.Lineup       `json:"lineup"`
	Score     float64           `json:"score"`
	Breakdown fitness.Breakdown `json:"breakdown"`
}

// Engine runs genetic searches over seat assignments. An Engine holds only
// run defaults, so one instance is safe for concurrent Optimize calls;
// each call owns its population and random source.
type Engine struct {
	generations      int
	populationSize   int
	topN             int
	mutationRate     float64
	crossoverRate    float64
	tournamentSize   int
	eliteCount       int
	stagnationWindow int
	workers          int
	seed             int64
	seeded           bool
	evaluator        *fitness.Evaluator
	log              logger.Logger
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		generations:      defaultGenerations,
		populationSize:   defaultPopulationSize,
		topN:             defaultTopN,
		mutationRate:     defaultMutationRate,
		crossoverRate:    defaultCrossoverRate,
		tournamentSize:   defaultTournamentSize,
		eliteCount:       defaultEliteCount,
		stagnationWindow: defaultStagnationWindow,
		workers:          runtime.NumCPU(),
		evaluator:        fitness.New(),
		log:              logger.Get().Named("search"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	if e.workers > maxWorkers {
		e.workers = maxWorkers
	}

	return e
}

// Optimize runs the genetic search and returns up to topN deduplicated
// lineups in descending fitness order. Constraint validation failures and
// infeasible rosters are reported before any generation runs. Options
// override the engine defaults for this run only.
func (e *Engine) Optimize(ctx context.Context, boatClass string, roster crew.Roster, raw constraint.Raw, opts ...Option) ([]RankedLineup, error) {
	run := *e
	for _, opt := range opts {
		opt(&run)
	}
	if run.workers > maxWorkers {
		run.workers = maxWorkers
	}

	start := time.Now()
	ranked, executed, err := run.optimize(ctx, boatClass, roster, raw)
	if err != nil {
		metrics.RecordOptimizationFailure()
		run.log.Error(ctx, "optimization failed",
			logger.String("boat_class", boatClass),
			logger.Error(err),
		)
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.RecordOptimizationRun()
	metrics.RecordOptimizationDuration(float64(elapsed.Milliseconds()))
	metrics.RecordGenerationsExecuted(executed)
	metrics.UpdateRosterSize(roster.Len())
	if len(ranked) > 0 {
		metrics.UpdateBestFitness(ranked[0].Score)
	}

	run.log.Info(ctx, "optimization completed",
		logger.String("boat_class", boatClass),
		logger.Int("generations", executed),
		logger.Int("lineups", len(ranked)),
		logger.Duration("elapsed", elapsed),
	)

	return ranked, nil
}

// optimize is the generation loop. It returns the ranked results and the
// number of generations actually executed.
func (e *Engine) optimize(ctx context.Context, boatClass string, roster crew.Roster, raw constraint.Raw) ([]RankedLineup, int, error) {
	cfg, err := boat.Resolve(boatClass)
	if err != nil {
		return nil, 0, err
	}

	cons, err := constraint.Normalize(raw, cfg, roster)
	if err != nil {
		return nil, 0, err
	}

	if err := checkFeasible(cfg, roster, cons); err != nil {
		return nil, 0, err
	}

	seed := e.seed
	if !e.seeded {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // statistical search, not cryptography

	workers := e.workers
	if workers > e.populationSize {
		workers = e.populationSize
	}
	metrics.UpdateWorkerCount(workers)

	e.log.Debug(ctx, "optimization run seeded",
		logger.String("boat_class", cfg.Class),
		logger.Int("roster_size", roster.Len()),
		logger.Int("population_size", e.populationSize),
		logger.Int("generations", e.generations),
		logger.Int64("seed", seed),
		logger.Int("workers", workers),
	)

	pop := seedPopulation(rng, cfg, roster, cons, e.populationSize)
	scored := e.evaluatePopulation(ctx, pop, roster, cons, workers)
	sortByFitness(scored)

	best := scored[0].Score
	sinceImproved := 0
	executed := 0

	for gen := 0; gen < e.generations; gen++ {
		// Cancellation is honored once per generation boundary; a
		// generation in flight always completes its barrier first.
		select {
		case <-ctx.Done():
			return nil, executed, ctx.Err()
		default:
		}

		next := make([]crew.Lineup, 0, e.populationSize)
		for i := 0; i < e.eliteCount && i < len(scored); i++ {
			next = append(next, scored[i].Lineup.Clone())
		}

		for len(next) < e.populationSize {
			p1 := tournament(rng, scored, e.tournamentSize)
			p2 := tournament(rng, scored, e.tournamentSize)

			child := p1.Lineup
			if rng.Float64() < e.crossoverRate {
				child = crossover(rng, cfg, p1.Lineup, p2.Lineup, roster, cons)
			}
			next = append(next, mutate(rng, child, roster, cons, e.mutationRate))
		}

		scored = e.evaluatePopulation(ctx, next, roster, cons, workers)
		sortByFitness(scored)
		executed++

		if scored[0].Score > best {
			best = scored[0].Score
			sinceImproved = 0
			continue
		}

		sinceImproved++
		if e.stagnationWindow > 0 && sinceImproved >= e.stagnationWindow {
			metrics.RecordStagnationExit()
			e.log.Debug(ctx, "search stagnated",
				logger.Int("generation", executed),
				logger.Int("window", e.stagnationWindow),
				logger.Float64("best_fitness", best),
			)
			break
		}
	}

	// A cancellation that landed mid-generation leaves partial scores;
	// discard them rather than rank a half-evaluated population.
	if err := ctx.Err(); err != nil {
		return nil, executed, err
	}

	unique := lo.UniqBy(scored, func(result fitness.Result) string {
		return result.Lineup.Signature()
	})
	sortByFitness(unique)

	topN := e.topN
	if topN > len(unique) {
		topN = len(unique)
	}
	ranked := make([]RankedLineup, topN)
	for i := range ranked {
		ranked[i] = RankedLineup{
			Rank:      i + 1,
			Lineup:    unique[i].Lineup,
			Score:     unique[i].Score,
			Breakdown: unique[i].Breakdown,
		}
	}

	return ranked, executed, nil
}

// evaluatePopulation scores every member concurrently. Indices travel the
// channel and results land in a slice slot per member, so worker
// scheduling cannot reorder a seeded run; the WaitGroup keeps the
// generation a hard barrier.
func (e *Engine) evaluatePopulation(ctx context.Context, pop []crew.Lineup, roster crew.Roster, cons constraint.Set, workers int) []fitness.Result {
	results := make([]fitness.Result, len(pop))

	if workers <= 1 {
		for i := range pop {
			results[i] = e.evaluator.Evaluate(pop[i], roster, cons)
		}
		metrics.RecordFitnessEvaluations(len(pop))
		return results
	}

	indexChan := make(chan int, workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					results[idx] = e.evaluator.Evaluate(pop[idx], roster, cons)
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range pop {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	metrics.RecordFitnessEvaluations(len(pop))
	return results
}

// sortByFitness orders results best-first. The sort is stable so equal
// scores keep their population order and repeated runs rank ties the
// same way.
func sortByFitness(scored []fitness.Result) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}
