// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package adjust

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/castadvisor/internal/process"
)

// ErrDivisionByZero is returned when an adjustable parameter's current value
// is zero, which makes the percentage change undefined.
var ErrDivisionByZero = errors.New("current value is zero")

// ParameterError ties a recommendation failure to the parameter that caused it.
type ParameterError struct {
	Parameter process.Parameter
	Err       error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Parameter, e.Err)
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

// Recommender computes bounded adjustment suggestions.
// It holds no mutable state and is safe for concurrent use.
type Recommender struct {
	ranges  *RangeTable
	targets *TargetRegistry
	logger  zerolog.Logger
}

// NewRecommender creates a recommender over the given tables.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRecommender(ranges *RangeTable, targets *TargetRegistry, logger zerolog.Logger) (*Recommender, error) {
	if ranges == nil {
		return nil, fmt.Errorf("range table is required")
	}
	if targets == nil {
		return nil, fmt.Errorf("target registry is required")
	}
	return &Recommender{
		ranges:  ranges,
		targets: targets,
		logger:  logger.With().Str("component", "adjust").Logger(),
	}, nil
}

// Ranges returns the recommender's range table.
func (r *Recommender) Ranges() *RangeTable {
	return r.ranges
}

// Suggest returns a suggestion for every adjustable parameter that has a
// registered target function.
//
// The optimal value is the target clamped into the parameter's range. A zero
// current value fails the whole call with ErrDivisionByZero.
func (r *Recommender) Suggest(ps process.ParameterSet) (process.Suggestions, error) {
	t := ps.CastingTemperature()
	out := make(process.Suggestions, process.NumFeatures-1)

	for _, p := range process.Adjustable() {
		target, ok := r.targets.Lookup(p)
		if !ok {
			r.logger.Debug().Str("parameter", string(p)).Msg("no target function registered, skipping")
			continue
		}
		rng, ok := r.ranges.Get(p)
		if !ok {
			// NewRangeTable guarantees coverage of every adjustable parameter.
			return nil, fmt.Errorf("no range for %s", p)
		}

		optimal := rng.Clamp(target(t))
		current, _ := ps.Get(p)
		if current == 0 {
			return nil, &ParameterError{Parameter: p, Err: ErrDivisionByZero}
		}

		out[p] = process.Suggestion{
			OptimalValue:     optimal,
			PercentageChange: (optimal - current) / current * 100,
		}
	}
	return out, nil
}
