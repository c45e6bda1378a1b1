// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package process

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Parameter names a measured process parameter.
type Parameter string

// Process parameters in feature order.
const (
	CastingTemperature    Parameter = "casting_temperature"
	CoolingTemp           Parameter = "cooling_temp"
	CastingSpeed          Parameter = "casting_speed"
	EntryTemp             Parameter = "entry_temp"
	EmulsionTemp          Parameter = "emulsion_temp"
	EmulsionPressure      Parameter = "emulsion_pressure"
	EmulsionConcentration Parameter = "emulsion_concentration"
	QuenchPressure        Parameter = "quench_pressure"
)

// NumFeatures is the width of a feature vector.
const NumFeatures = 8

// features is the canonical feature order used by the model.
var features = [NumFeatures]Parameter{
	CastingTemperature,
	CoolingTemp,
	CastingSpeed,
	EntryTemp,
	EmulsionTemp,
	EmulsionPressure,
	EmulsionConcentration,
	QuenchPressure,
}

// featureIndex maps a parameter to its column.
var featureIndex = func() map[Parameter]int {
	m := make(map[Parameter]int, NumFeatures)
	for i, p := range features {
		m[p] = i
	}
	return m
}()

// Errors returned when building a ParameterSet.
var (
	ErrMissingParameter   = errors.New("missing parameter")
	ErrNonFiniteParameter = errors.New("parameter is not a finite number")
	ErrUnknownParameter   = errors.New("unknown parameter")
)

// Features returns all parameters in feature order.
func Features() []Parameter {
	out := make([]Parameter, NumFeatures)
	copy(out, features[:])
	return out
}

// Adjustable returns the parameters the recommender may suggest changes for,
// in feature order. casting_temperature is excluded.
func Adjustable() []Parameter {
	out := make([]Parameter, 0, NumFeatures-1)
	for _, p := range features {
		if p != CastingTemperature {
			out = append(out, p)
		}
	}
	return out
}

// IsAdjustable reports whether p is one of the adjustable parameters.
func (p Parameter) IsAdjustable() bool {
	_, ok := featureIndex[p]
	return ok && p != CastingTemperature
}

// Valid reports whether p is a known parameter name.
func (p Parameter) Valid() bool {
	_, ok := featureIndex[p]
	return ok
}

// Index returns the feature column of p, or -1 for an unknown name.
func (p Parameter) Index() int {
	if i, ok := featureIndex[p]; ok {
		return i
	}
	return -1
}

func (p Parameter) String() string {
	return string(p)
}

// ParameterSet is a complete, validated set of process measurements.
// The zero value is not valid; use NewParameterSet or FromVector.
type ParameterSet struct {
	values [NumFeatures]float64
}

// NewParameterSet validates raw measurements keyed by parameter name.
//
// Every parameter must be present and finite. Keys that do not name a
// parameter are rejected with ErrUnknownParameter.
func NewParameterSet(raw map[string]float64) (ParameterSet, error) {
	var ps ParameterSet

	var unknown []string
	for k := range raw {
		if !Parameter(k).Valid() {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return ps, fmt.Errorf("%w: %s", ErrUnknownParameter, strings.Join(unknown, ", "))
	}

	for i, p := range features {
		v, ok := raw[string(p)]
		if !ok {
			return ps, fmt.Errorf("%w: %s", ErrMissingParameter, p)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ps, fmt.Errorf("%w: %s", ErrNonFiniteParameter, p)
		}
		ps.values[i] = v
	}
	return ps, nil
}

// FromVector builds a ParameterSet from a feature-ordered vector.
func FromVector(v []float64) (ParameterSet, error) {
	var ps ParameterSet
	if len(v) != NumFeatures {
		return ps, fmt.Errorf("expected %d values, got %d", NumFeatures, len(v))
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ps, fmt.Errorf("%w: %s", ErrNonFiniteParameter, features[i])
		}
		ps.values[i] = x
	}
	return ps, nil
}

// Get returns the value of p. The boolean is false for unknown names.
func (ps ParameterSet) Get(p Parameter) (float64, bool) {
	i := p.Index()
	if i < 0 {
		return 0, false
	}
	return ps.values[i], true
}

// CastingTemperature returns the driver parameter of all target functions.
func (ps ParameterSet) CastingTemperature() float64 {
	return ps.values[0]
}

// Vector returns a fresh feature-ordered copy of the values.
func (ps ParameterSet) Vector() []float64 {
	out := make([]float64, NumFeatures)
	copy(out, ps.values[:])
	return out
}

// Map returns the values keyed by parameter name.
func (ps ParameterSet) Map() map[string]float64 {
	out := make(map[string]float64, NumFeatures)
	for i, p := range features {
		out[string(p)] = ps.values[i]
	}
	return out
}
