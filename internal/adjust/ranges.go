// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package adjust

import (
	"errors"
	"fmt"
	"math"

	"github.com/tomtom215/castadvisor/internal/process"
)

// ErrInvalidRange is returned by NewRangeTable for malformed bounds.
var ErrInvalidRange = errors.New("invalid parameter range")

// Range is the permitted operating interval of one adjustable parameter.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp bounds v to [r.Min, r.Max].
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(v, r.Max))
}

// Contains reports whether v lies inside the closed interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// RangeTable holds a Range for every adjustable parameter.
// It is immutable once built.
type RangeTable struct {
	ranges map[process.Parameter]Range
}

// DefaultRanges returns the plant's standard operating ranges.
func DefaultRanges() map[process.Parameter]Range {
	return map[process.Parameter]Range{
		process.CoolingTemp:           {Min: 20, Max: 35},
		process.CastingSpeed:          {Min: 6, Max: 12},
		process.EntryTemp:             {Min: 400, Max: 500},
		process.EmulsionTemp:          {Min: 40, Max: 60},
		process.EmulsionPressure:      {Min: 1, Max: 3},
		process.EmulsionConcentration: {Min: 2, Max: 5},
		process.QuenchPressure:        {Min: 1, Max: 2},
	}
}

// NewRangeTable validates and freezes a set of ranges.
//
// Every adjustable parameter needs an entry with finite bounds and Min < Max.
// Entries for casting_temperature or unknown names are rejected.
func NewRangeTable(ranges map[process.Parameter]Range) (*RangeTable, error) {
	table := make(map[process.Parameter]Range, len(ranges))
	for p, r := range ranges {
		if !p.IsAdjustable() {
			return nil, fmt.Errorf("%w: %s is not an adjustable parameter", ErrInvalidRange, p)
		}
		if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
			return nil, fmt.Errorf("%w: %s bounds must be finite", ErrInvalidRange, p)
		}
		if r.Min >= r.Max {
			return nil, fmt.Errorf("%w: %s min %g must be less than max %g", ErrInvalidRange, p, r.Min, r.Max)
		}
		table[p] = r
	}
	for _, p := range process.Adjustable() {
		if _, ok := table[p]; !ok {
			return nil, fmt.Errorf("%w: no range for %s", ErrInvalidRange, p)
		}
	}
	return &RangeTable{ranges: table}, nil
}

// Get returns the range for p.
func (t *RangeTable) Get(p process.Parameter) (Range, bool) {
	r, ok := t.ranges[p]
	return r, ok
}

// All returns a copy of the table.
func (t *RangeTable) All() map[process.Parameter]Range {
	out := make(map[process.Parameter]Range, len(t.ranges))
	for p, r := range t.ranges {
		out[p] = r
	}
	return out
}
