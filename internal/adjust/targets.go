// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package adjust

import (
	"math"

	"github.com/tomtom215/castadvisor/internal/process"
)

// TargetFunc maps the casting temperature to a raw target value for one
// adjustable parameter. The result is clamped to the range table afterwards.
type TargetFunc func(castingTemperature float64) float64

// TargetRegistry maps adjustable parameters to their target functions.
// Parameters without an entry receive no suggestion.
type TargetRegistry struct {
	funcs map[process.Parameter]TargetFunc
}

// NewTargetRegistry freezes a copy of funcs. Nil functions are dropped.
func NewTargetRegistry(funcs map[process.Parameter]TargetFunc) *TargetRegistry {
	m := make(map[process.Parameter]TargetFunc, len(funcs))
	for p, f := range funcs {
		if f != nil {
			m[p] = f
		}
	}
	return &TargetRegistry{funcs: m}
}

// DefaultTargets returns the registry used in production.
//
// Only cooling_temp and casting_speed actually depend on the casting
// temperature. The other five return fixed setpoints regardless of input;
// this mirrors the plant's current rule set and is kept as-is until process
// engineering supplies real curves.
func DefaultTargets() *TargetRegistry {
	return NewTargetRegistry(map[process.Parameter]TargetFunc{
		process.CoolingTemp: func(t float64) float64 {
			return math.Max(20, math.Min(0.5*t+2, 35))
		},
		process.CastingSpeed: func(t float64) float64 {
			return math.Max(6, math.Min(0.8*t+1000, 12))
		},
		process.EntryTemp:             constant(450),
		process.EmulsionTemp:          constant(50),
		process.EmulsionPressure:      constant(2),
		process.EmulsionConcentration: constant(3),
		process.QuenchPressure:        constant(1.5),
	})
}

func constant(v float64) TargetFunc {
	return func(float64) float64 { return v }
}

// Lookup returns the target function for p.
func (r *TargetRegistry) Lookup(p process.Parameter) (TargetFunc, bool) {
	f, ok := r.funcs[p]
	return f, ok
}

// Len returns the number of registered functions.
func (r *TargetRegistry) Len() int {
	return len(r.funcs)
}
