// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load(ctx) layers file/env on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Generations is the default generation budget per optimization run.
	Generations int `koanf:"generations"`

	// PopulationSize is the default number of candidate lineups per generation.
	PopulationSize int `koanf:"population_size"`

	// TopN is the default number of ranked lineups returned per run.
	TopN int `koanf:"top_n"`

	// MaxGenerations, MaxPopulationSize and MaxTopN cap caller-supplied options.
	MaxGenerations    int `koanf:"max_generations"`
	MaxPopulationSize int `koanf:"max_population_size"`
	MaxTopN           int `koanf:"max_top_n"`

	// MutationRate is the per-seat mutation probability.
	MutationRate float64 `koanf:"mutation_rate"`

	// CrossoverRate is the probability an offspring is produced by crossover
	// rather than cloned from a parent.
	CrossoverRate float64 `koanf:"crossover_rate"`

	// TournamentSize is the selection arena size.
	TournamentSize int `koanf:"tournament_size"`

	// EliteCount is how many best lineups carry over unchanged per generation.
	EliteCount int `koanf:"elite_count"`

	// StagnationWindow is how many non-improving generations end a run early.
	StagnationWindow int `koanf:"stagnation_window"`

	// WorkerCount sets the number of fitness evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// HeadRaceMeters is the assumed distance for head-race predictions.
	HeadRaceMeters float64 `koanf:"head_race_meters"`

	// LineupCacheSize bounds the recent-lineup cache.
	LineupCacheSize int `koanf:"lineup_cache_size"`
}

// New creates a Config with defaults.
func New() *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		Generations:       100,
		PopulationSize:    50,
		TopN:              5,
		MaxGenerations:    1_000,
		MaxPopulationSize: 500,
		MaxTopN:           20,
		MutationRate:      0.08,
		CrossoverRate:     0.85,
		TournamentSize:    3,
		EliteCount:        1,
		StagnationWindow:  15,
		WorkerCount:       runtime.NumCPU(),
		HeadRaceMeters:    4_800,
		LineupCacheSize:   256,
	}
	return c
}
