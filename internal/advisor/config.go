// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package advisor

import (
	"fmt"
	"time"

	"github.com/tomtom215/castadvisor/internal/adjust"
	"github.com/tomtom215/castadvisor/internal/classifier"
	"github.com/tomtom215/castadvisor/internal/process"
)

// Config contains all configuration for the advisor engine.
type Config struct {
	// BestLabel is the quality class that receives no suggestions.
	// Default: "high".
	BestLabel process.Label

	// Forest controls quality model training.
	Forest classifier.ForestConfig

	// Ranges bounds every suggested setpoint.
	// Default: adjust.DefaultRanges().
	Ranges map[process.Parameter]adjust.Range

	// FitTimeout bounds model fitting during Init. 0 disables the limit.
	// Default: 5m.
	FitTimeout time.Duration
}

// DefaultConfig returns the production advisor configuration.
func DefaultConfig() Config {
	return Config{
		BestLabel:  process.DefaultBestLabel,
		Forest:     classifier.DefaultForestConfig(),
		Ranges:     adjust.DefaultRanges(),
		FitTimeout: 5 * time.Minute,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.BestLabel == "" {
		return fmt.Errorf("best_label must not be empty")
	}
	if err := c.Forest.Validate(); err != nil {
		return fmt.Errorf("forest: %w", err)
	}
	if _, err := adjust.NewRangeTable(c.Ranges); err != nil {
		return fmt.Errorf("ranges: %w", err)
	}
	if c.FitTimeout < 0 {
		return fmt.Errorf("fit_timeout must be non-negative, got %v", c.FitTimeout)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() Config {
	out := *c
	out.Ranges = make(map[process.Parameter]adjust.Range, len(c.Ranges))
	for p, r := range c.Ranges {
		out.Ranges[p] = r
	}
	return out
}
