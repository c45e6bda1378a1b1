// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package config

import (
	"time"

	"github.com/tomtom215/castadvisor/internal/adjust"
	"github.com/tomtom215/castadvisor/internal/advisor"
	"github.com/tomtom215/castadvisor/internal/classifier"
	"github.com/tomtom215/castadvisor/internal/logging"
	"github.com/tomtom215/castadvisor/internal/process"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Dataset  DatasetConfig  `koanf:"dataset"`
	Model    ModelConfig    `koanf:"model"`
	Advisor  AdvisorConfig  `koanf:"advisor"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"

	// MaxRequestBytes caps JSON and CSV request bodies.
	MaxRequestBytes int64 `koanf:"max_request_bytes"`

	// MaxBatchRows caps the number of runs in one batch assessment.
	MaxBatchRows int `koanf:"max_batch_rows"`
}

// SecurityConfig holds rate limiting and CORS settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Caller bool   `koanf:"caller"`
}

// DatasetConfig locates the historical casting runs used to fit the model.
type DatasetConfig struct {
	Path        string `koanf:"path"`
	LabelColumn string `koanf:"label_column"`
}

// ModelConfig holds quality model training settings.
type ModelConfig struct {
	NumTrees        int           `koanf:"num_trees"`
	Seed            int64         `koanf:"seed"`
	MaxDepth        int           `koanf:"max_depth"` // 0 = unlimited
	MinSamplesSplit int           `koanf:"min_samples_split"`
	MinSamplesLeaf  int           `koanf:"min_samples_leaf"`
	MaxFeatures     int           `koanf:"max_features"` // 0 = floor(sqrt(n_features))
	Workers         int           `koanf:"workers"`      // 0 = runtime.NumCPU()
	FitTimeout      time.Duration `koanf:"fit_timeout"`
}

// AdvisorConfig holds recommendation settings.
type AdvisorConfig struct {
	BestLabel string       `koanf:"best_label"`
	Ranges    RangesConfig `koanf:"ranges"`
}

// RangeConfig is an inclusive setpoint bound.
type RangeConfig struct {
	Min float64 `koanf:"min"`
	Max float64 `koanf:"max"`
}

// RangesConfig holds the bound for every adjustable parameter. Field tags
// match the parameter names.
type RangesConfig struct {
	CoolingTemp           RangeConfig `koanf:"cooling_temp"`
	CastingSpeed          RangeConfig `koanf:"casting_speed"`
	EntryTemp             RangeConfig `koanf:"entry_temp"`
	EmulsionTemp          RangeConfig `koanf:"emulsion_temp"`
	EmulsionPressure      RangeConfig `koanf:"emulsion_pressure"`
	EmulsionConcentration RangeConfig `koanf:"emulsion_concentration"`
	QuenchPressure        RangeConfig `koanf:"quench_pressure"`
}

// byParameter returns the configured ranges keyed by parameter.
func (r *RangesConfig) byParameter() map[process.Parameter]RangeConfig {
	return map[process.Parameter]RangeConfig{
		process.CoolingTemp:           r.CoolingTemp,
		process.CastingSpeed:          r.CastingSpeed,
		process.EntryTemp:             r.EntryTemp,
		process.EmulsionTemp:          r.EmulsionTemp,
		process.EmulsionPressure:      r.EmulsionPressure,
		process.EmulsionConcentration: r.EmulsionConcentration,
		process.QuenchPressure:        r.QuenchPressure,
	}
}

func rangesFrom(table map[process.Parameter]adjust.Range) RangesConfig {
	conv := func(p process.Parameter) RangeConfig {
		r := table[p]
		return RangeConfig{Min: r.Min, Max: r.Max}
	}
	return RangesConfig{
		CoolingTemp:           conv(process.CoolingTemp),
		CastingSpeed:          conv(process.CastingSpeed),
		EntryTemp:             conv(process.EntryTemp),
		EmulsionTemp:          conv(process.EmulsionTemp),
		EmulsionPressure:      conv(process.EmulsionPressure),
		EmulsionConcentration: conv(process.EmulsionConcentration),
		QuenchPressure:        conv(process.QuenchPressure),
	}
}

// ToAdvisorConfig converts the model and advisor sections into an engine
// configuration.
func (c *Config) ToAdvisorConfig() advisor.Config {
	ranges := make(map[process.Parameter]adjust.Range, len(process.Adjustable()))
	for p, r := range c.Advisor.Ranges.byParameter() {
		ranges[p] = adjust.Range{Min: r.Min, Max: r.Max}
	}
	return advisor.Config{
		BestLabel: process.Label(c.Advisor.BestLabel),
		Forest: classifier.ForestConfig{
			NumTrees:        c.Model.NumTrees,
			Seed:            c.Model.Seed,
			MaxDepth:        c.Model.MaxDepth,
			MinSamplesSplit: c.Model.MinSamplesSplit,
			MinSamplesLeaf:  c.Model.MinSamplesLeaf,
			MaxFeatures:     c.Model.MaxFeatures,
			Workers:         c.Model.Workers,
		},
		Ranges:     ranges,
		FitTimeout: c.Model.FitTimeout,
	}
}

// ToLoggingConfig converts the logging section for logging.Init.
func (c *Config) ToLoggingConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	if c.Logging.Format != "" {
		lc.Format = c.Logging.Format
	}
	lc.Caller = c.Logging.Caller
	return lc
}
