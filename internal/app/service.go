// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/oarbit/rigger/internal/adapters/lineupcache"
	"github.com/oarbit/rigger/internal/domain/boat"
	"github.com/oarbit/rigger/internal/domain/constraint"
	"github.com/oarbit/rigger/internal/domain/crew"
	"github.com/oarbit/rigger/internal/domain/fitness"
	"github.com/oarbit/rigger/internal/domain/predict"
	"github.com/oarbit/rigger/internal/domain/search"
	"github.com/oarbit/rigger/pkg/logger"
)

// Service implements the API dependencies for the lineup engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine    *search.Engine
	evaluator *fitness.Evaluator
	predictor *predict.Predictor
	lineups   lineupcache.Cache

	// Configuration
	generations      int
	populationSize   int
	topN             int
	mutationRate     float64
	crossoverRate    float64
	tournamentSize   int
	eliteCount       int
	stagnationWindow int
	workerCount      int
	cacheSize        int
	headRaceMeters   float64

	// State
	started     bool
	runs        atomic.Int64
	predictions atomic.Int64
	comparisons atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGenerations sets the default generation budget per optimization.
func WithGenerations(generations int) Option {
	return func(s *Service) {
		if generations > 0 {
			s.generations = generations
		}
	}
}

// WithPopulationSize sets the default search population size.
func WithPopulationSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.populationSize = size
		}
	}
}

// WithTopN sets the default number of lineups returned per optimization.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithMutationRate sets the per-seat mutation probability.
func WithMutationRate(rate float64) Option {
	return func(s *Service) {
		if rate > 0 && rate <= 1 {
			s.mutationRate = rate
		}
	}
}

// WithCrossoverRate sets the crossover probability.
func WithCrossoverRate(rate float64) Option {
	return func(s *Service) {
		if rate > 0 && rate <= 1 {
			s.crossoverRate = rate
		}
	}
}

// WithTournamentSize sets the selection arena size.
func WithTournamentSize(n int) Option {
	return func(s *Service) {
		if n >= 2 {
			s.tournamentSize = n
		}
	}
}

// WithEliteCount sets how many top lineups survive a generation unchanged.
func WithEliteCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.eliteCount = n
		}
	}
}

// WithStagnationWindow sets how many non-improving generations end a run early.
func WithStagnationWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.stagnationWindow = n
		}
	}
}

// WithWorkerCount sets the number of fitness evaluation goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithCacheSize bounds the recent-lineup cache.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithHeadRaceMeters sets the head-race course length used by predictions.
func WithHeadRaceMeters(meters float64) Option {
	return func(s *Service) {
		if meters > 0 {
			s.headRaceMeters = meters
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		generations:    100,
		populationSize: 50,
		topN:           5,
		workerCount:    runtime.NumCPU(),
		cacheSize:      256,
		logger:         nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting rigger service...")

	s.evaluator = fitness.New()
	engineOpts := []search.Option{
		search.WithGenerations(s.generations),
		search.WithPopulationSize(s.populationSize),
		search.WithTopN(s.topN),
		search.WithWorkerCount(s.workerCount),
		search.WithEvaluator(s.evaluator),
		search.WithLogger(s.logger),
	}
	if s.mutationRate > 0 {
		engineOpts = append(engineOpts, search.WithMutationRate(s.mutationRate))
	}
	if s.crossoverRate > 0 {
		engineOpts = append(engineOpts, search.WithCrossoverRate(s.crossoverRate))
	}
	if s.tournamentSize > 0 {
		engineOpts = append(engineOpts, search.WithTournamentSize(s.tournamentSize))
	}
	if s.eliteCount > 0 {
		engineOpts = append(engineOpts, search.WithEliteCount(s.eliteCount))
	}
	if s.stagnationWindow > 0 {
		engineOpts = append(engineOpts, search.WithStagnationWindow(s.stagnationWindow))
	}
	s.engine = search.New(engineOpts...)

	predictOpts := make([]predict.Option, 0, 1)
	if s.headRaceMeters > 0 {
		predictOpts = append(predictOpts, predict.WithHeadRaceMeters(s.headRaceMeters))
	}
	s.predictor = predict.New(predictOpts...)

	s.lineups = lineupcache.NewInMemoryCache(
		lineupcache.WithMaxSize(s.cacheSize),
	)

	s.started = true
	s.logger.Info(ctx, "rigger service started",
		logger.Int("generations", s.generations),
		logger.Int("population_size", s.populationSize),
		logger.Int("workers", s.workerCount),
		logger.Int("lineup_cache", s.cacheSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping rigger service...")

	s.started = false
	s.logger.Info(context.Background(), "rigger service stopped")
}

// components returns the live engine parts, failing before Start.
func (s *Service) components() (*search.Engine, *predict.Predictor, lineupcache.Cache, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, nil, nil, ErrNotStarted
	}
	return s.engine, s.predictor, s.lineups, nil
}

// OptimizeParams carries one optimization request.
type OptimizeParams struct {
	BoatClass      string
	Athletes       []crew.Athlete
	Constraints    constraint.Raw
	Generations    int
	PopulationSize int
	TopN           int
	Seed           *int64
}

// OptimizedLineup is one ranked search result plus the cache handle a
// later prediction can reference it by.
type OptimizedLineup struct {
	LineupID string `json:"lineup_id"`
	search.RankedLineup
}

// OptimizeResult is the ordered outcome of one optimization run.
type OptimizeResult struct {
	RunID     string            `json:"run_id"`
	BoatClass string            `json:"boat_class"`
	Lineups   []OptimizedLineup `json:"lineups"`
}

// Optimize runs the genetic search and caches every returned lineup so it
// stays addressable by id for predictions and comparisons.
func (s *Service) Optimize(ctx context.Context, params OptimizeParams) (OptimizeResult, error) {
	engine, _, cache, err := s.components()
	if err != nil {
		return OptimizeResult{}, err
	}

	roster, err := crew.NewRoster(params.Athletes)
	if err != nil {
		return OptimizeResult{}, err
	}

	opts := make([]search.Option, 0, 4)
	if params.Generations > 0 {
		opts = append(opts, search.WithGenerations(params.Generations))
	}
	if params.PopulationSize > 0 {
		opts = append(opts, search.WithPopulationSize(params.PopulationSize))
	}
	if params.TopN > 0 {
		opts = append(opts, search.WithTopN(params.TopN))
	}
	if params.Seed != nil {
		opts = append(opts, search.WithSeed(*params.Seed))
	}

	ranked, err := engine.Optimize(ctx, params.BoatClass, roster, params.Constraints, opts...)
	if err != nil {
		return OptimizeResult{}, err
	}

	result := OptimizeResult{
		RunID:     uuid.New().String(),
		BoatClass: params.BoatClass,
		Lineups:   make([]OptimizedLineup, len(ranked)),
	}
	for i, r := range ranked {
		id := cache.Put(ctx, params.BoatClass, r.Lineup, roster, r.Score)
		result.Lineups[i] = OptimizedLineup{LineupID: id, RankedLineup: r}
	}

	s.runs.Add(1)
	s.logger.Debug(ctx, "optimization served",
		logger.String("run_id", result.RunID),
		logger.String("boat_class", params.BoatClass),
		logger.Int("lineups", len(result.Lineups)),
	)

	return result, nil
}

// Evaluate scores an explicit lineup against a roster without running the
// search. Structural problems surface as penalties in the breakdown rather
// than errors, matching how the search itself judges candidates.
func (s *Service) Evaluate(ctx context.Context, boatClass string, athletes []crew.Athlete, lineup crew.Lineup) (fitness.Result, error) {
	if _, _, _, err := s.components(); err != nil {
		return fitness.Result{}, err
	}

	cfg, err := boat.Resolve(boatClass)
	if err != nil {
		return fitness.Result{}, err
	}
	roster, err := crew.NewRoster(athletes)
	if err != nil {
		return fitness.Result{}, err
	}
	cons, err := constraint.Normalize(constraint.Raw{}, cfg, roster)
	if err != nil {
		return fitness.Result{}, err
	}

	s.mu.RLock()
	evaluator := s.evaluator
	s.mu.RUnlock()

	return evaluator.Evaluate(lineup, roster, cons), nil
}

// CrewSelector picks one crew for prediction: either a cached lineup by id
// or a subset of the request's athletes by their ids. An empty selector
// means the whole athlete list is the crew.
type CrewSelector struct {
	LineupID   string
	AthleteIDs []string
}

// PredictParams carries one race-time prediction request.
type PredictParams struct {
	BoatClass  string
	CourseType string
	Athletes   []crew.Athlete
	Crew       CrewSelector
}

// Predict resolves the requested crew and produces a race-time prediction.
func (s *Service) Predict(ctx context.Context, params PredictParams) (predict.Prediction, error) {
	_, predictor, cache, err := s.components()
	if err != nil {
		return predict.Prediction{}, err
	}

	class, rowers, err := resolveCrew(ctx, cache, params.BoatClass, params.Athletes, params.Crew)
	if err != nil {
		return predict.Prediction{}, err
	}

	prediction, err := predictor.Predict(rowers, class, params.CourseType)
	if err != nil {
		return predict.Prediction{}, err
	}

	s.predictions.Add(1)
	return prediction, nil
}

// CompareParams carries one lineup comparison request. Both crews race the
// same boat class and course.
type CompareParams struct {
	BoatClass  string
	CourseType string
	Athletes   []crew.Athlete
	CrewA      CrewSelector
	CrewB      CrewSelector
}

// Compare resolves both crews and reports the predicted margin between them.
func (s *Service) Compare(ctx context.Context, params CompareParams) (predict.Comparison, error) {
	_, predictor, cache, err := s.components()
	if err != nil {
		return predict.Comparison{}, err
	}

	classA, crewA, err := resolveCrew(ctx, cache, params.BoatClass, params.Athletes, params.CrewA)
	if err != nil {
		return predict.Comparison{}, fmt.Errorf("crew A: %w", err)
	}
	classB, crewB, err := resolveCrew(ctx, cache, params.BoatClass, params.Athletes, params.CrewB)
	if err != nil {
		return predict.Comparison{}, fmt.Errorf("crew B: %w", err)
	}
	if classA != classB {
		return predict.Comparison{}, fmt.Errorf("%w: crew A is %q, crew B is %q", ErrClassMismatch, classA, classB)
	}

	comparison, err := predictor.Compare(crewA, crewB, classA, params.CourseType)
	if err != nil {
		return predict.Comparison{}, err
	}

	s.comparisons.Add(1)
	return comparison, nil
}

// resolveCrew turns a selector into the rowing crew to predict for. Cached
// lineups carry their own roster snapshot and boat class; the coxswain is
// left out because only rowing seats feed the propulsion average.
func resolveCrew(ctx context.Context, cache lineupcache.Cache, boatClass string, athletes []crew.Athlete, sel CrewSelector) (string, []crew.Athlete, error) {
	if sel.LineupID != "" {
		entry, ok := cache.Get(ctx, sel.LineupID)
		if !ok {
			return "", nil, fmt.Errorf("%w: %q", ErrLineupNotFound, sel.LineupID)
		}
		if boatClass != "" && boatClass != entry.BoatClass {
			return "", nil, fmt.Errorf("%w: lineup %q was optimized for %q, not %q",
				ErrClassMismatch, sel.LineupID, entry.BoatClass, boatClass)
		}

		rowers := make([]crew.Athlete, 0, len(entry.Lineup.Seats))
		for _, id := range entry.Lineup.SeatedIDs() {
			if athlete, ok := entry.Roster.Get(id); ok {
				rowers = append(rowers, athlete)
			}
		}
		return entry.BoatClass, rowers, nil
	}

	if len(sel.AthleteIDs) > 0 {
		roster, err := crew.NewRoster(athletes)
		if err != nil {
			return "", nil, err
		}
		rowers := make([]crew.Athlete, 0, len(sel.AthleteIDs))
		for _, id := range sel.AthleteIDs {
			athlete, ok := roster.Get(id)
			if !ok {
				return "", nil, fmt.Errorf("%w: %q", crew.ErrUnknownAthlete, id)
			}
			rowers = append(rowers, athlete)
		}
		return boatClass, rowers, nil
	}

	return boatClass, athletes, nil
}

// Boats returns the resolved configuration of every supported boat class.
func (s *Service) Boats() []boat.Configuration {
	classes := boat.Classes()
	out := make([]boat.Configuration, 0, len(classes))
	for _, class := range classes {
		cfg, err := boat.Resolve(class)
		if err != nil {
			continue // table-backed, cannot happen
		}
		out = append(out, cfg)
	}
	return out
}

// Courses returns the supported course types.
func (s *Service) Courses() []string {
	return predict.Courses()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"generations":     s.generations,
		"population_size": s.populationSize,
		"top_n":           s.topN,
		"worker_count":    s.workerCount,
		"cache_size":      s.cacheSize,
		"runs":            s.runs.Load(),
		"predictions":     s.predictions.Load(),
		"comparisons":     s.comparisons.Load(),
	}

	if s.started {
		stats["cached_lineups"] = s.lineups.Size()
	}

	return stats
}
