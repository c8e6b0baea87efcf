package search

import (
	"github.com/oarbit/rigger/internal/domain/fitness"
	"github.com/oarbit/rigger/pkg/logger"
)

// Option applies a configuration option to the Engine. Options passed to
// Optimize override the engine defaults for that run only.
type Option func(*Engine)

// WithGenerations sets the generation budget for a run.
func WithGenerations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.generations = n
		}
	}
}

// WithPopulationSize sets how many candidate lineups evolve per generation.
func WithPopulationSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.populationSize = n
		}
	}
}

// WithTopN sets how many ranked lineups a run returns at most.
func WithTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topN = n
		}
	}
}

// WithMutationRate sets the per-seat mutation probability.
func WithMutationRate(rate float64) Option {
	return func(e *Engine) {
		if rate >= 0 && rate <= 1 {
			e.mutationRate = rate
		}
	}
}

// WithCrossoverRate sets the probability that an offspring is bred by
// crossover rather than cloned from its first parent.
func WithCrossoverRate(rate float64) Option {
	return func(e *Engine) {
		if rate >= 0 && rate <= 1 {
			e.crossoverRate = rate
		}
	}
}

// WithTournamentSize sets the selection arena size.
func WithTournamentSize(n int) Option {
	return func(e *Engine) {
		if n >= 2 {
			e.tournamentSize = n
		}
	}
}

// WithEliteCount sets how many top individuals survive a generation
// unchanged. At least one elite keeps the best-known fitness monotone.
func WithEliteCount(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.eliteCount = n
		}
	}
}

// WithStagnationWindow sets how many consecutive non-improving generations
// end a run early. Zero disables the early exit.
func WithStagnationWindow(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.stagnationWindow = n
		}
	}
}

// WithWorkerCount sets the fitness evaluation pool size.
func WithWorkerCount(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithSeed pins the random source so a run is reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.seeded = true
	}
}

// WithEvaluator sets a custom fitness evaluator.
func WithEvaluator(evaluator *fitness.Evaluator) Option {
	return func(e *Engine) {
		if evaluator != nil {
			e.evaluator = evaluator
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}
