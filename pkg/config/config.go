// Package config loads run configuration from an optional TOML file, with
// environment overrides (optionally via a .env file) on top. CLI flags are
// applied by the drivers after this and win over both.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/df07/go-kdop-optimizer/pkg/logging"
	"github.com/df07/go-kdop-optimizer/pkg/optimizer"
)

// Config is the full run configuration for both drivers
type Config struct {
	Log       logging.Config `toml:"log"`
	Optimizer Optimizer      `toml:"optimizer"`
}

// Optimizer holds the search and evaluation parameters
type Optimizer struct {
	Seed        uint32  `toml:"seed"`
	Workers     int     `toml:"workers"`      // 0 = one per CPU
	Samples     int     `toml:"samples"`      // Monte-Carlo samples per image cost evaluation
	InitialStep float64 `toml:"initial_step"` // 0 = driver default
	StepDecay   float64 `toml:"step_decay"`
	MinStep     float64 `toml:"min_step"`
	FailLimit   int     `toml:"fail_limit"` // 0 = driver default
}

// Default returns the configuration used when no file is given
func Default() Config {
	search := optimizer.DefaultConfig()
	return Config{
		Log: logging.DefaultConfig(),
		Optimizer: Optimizer{
			Samples:   10000,
			StepDecay: search.StepDecay,
			MinStep:   search.MinStep,
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path (if
// any), then environment variables. A missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	_ = godotenv.Load() // best effort; env vars work without a .env file
	applyEnv(&cfg)

	return cfg, nil
}

// applyEnv overrides select fields from KDOPT_* environment variables
func applyEnv(cfg *Config) {
	if v := os.Getenv("KDOPT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("KDOPT_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.Optimizer.Seed = uint32(seed)
		}
	}
	if v := os.Getenv("KDOPT_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			cfg.Optimizer.Workers = workers
		}
	}
}
