package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if RIGGER_CONFIG is set
//  3. env (prefix RIGGER_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("RIGGER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: RIGGER_ADDR, RIGGER_POPULATION_SIZE, ...
	// Map env keys like RIGGER_POPULATION_SIZE -> population_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("RIGGER_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "rigger_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the engine cannot run with.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Generations <= 0 || c.PopulationSize <= 0 || c.TopN <= 0 {
		return fmt.Errorf("%w: generations, population_size and top_n must be positive", ErrInvalidConfig)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: mutation_rate must be in [0,1]", ErrInvalidConfig)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("%w: crossover_rate must be in [0,1]", ErrInvalidConfig)
	}
	if c.TournamentSize < 2 {
		return fmt.Errorf("%w: tournament_size must be at least 2", ErrInvalidConfig)
	}
	if c.EliteCount < 0 || c.EliteCount >= c.PopulationSize {
		return fmt.Errorf("%w: elite_count must be in [0, population_size)", ErrInvalidConfig)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("%w: worker_count must be at least 1", ErrInvalidConfig)
	}
	if c.HeadRaceMeters <= 0 {
		return fmt.Errorf("%w: head_race_meters must be positive", ErrInvalidConfig)
	}
	return nil
}
