// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package models

import (
	"github.com/tomtom215/castadvisor/internal/adjust"
	"github.com/tomtom215/castadvisor/internal/process"
)

// RunParameters is the JSON form of one casting run. Pointer fields let
// validation tell an absent parameter from an explicit zero.
type RunParameters struct {
	CastingTemperature    *float64 `json:"casting_temperature" validate:"required,finite"`
	CoolingTemp           *float64 `json:"cooling_temp" validate:"required,finite"`
	CastingSpeed          *float64 `json:"casting_speed" validate:"required,finite"`
	EntryTemp             *float64 `json:"entry_temp" validate:"required,finite"`
	EmulsionTemp          *float64 `json:"emulsion_temp" validate:"required,finite"`
	EmulsionPressure      *float64 `json:"emulsion_pressure" validate:"required,finite"`
	EmulsionConcentration *float64 `json:"emulsion_concentration" validate:"required,finite"`
	QuenchPressure        *float64 `json:"quench_pressure" validate:"required,finite"`
}

// ToParameterSet converts validated request parameters into a ParameterSet.
func (r *RunParameters) ToParameterSet() (process.ParameterSet, error) {
	values := make(map[string]float64, process.NumFeatures)
	set := func(p process.Parameter, v *float64) {
		if v != nil {
			values[p.String()] = *v
		}
	}
	set(process.CastingTemperature, r.CastingTemperature)
	set(process.CoolingTemp, r.CoolingTemp)
	set(process.CastingSpeed, r.CastingSpeed)
	set(process.EntryTemp, r.EntryTemp)
	set(process.EmulsionTemp, r.EmulsionTemp)
	set(process.EmulsionPressure, r.EmulsionPressure)
	set(process.EmulsionConcentration, r.EmulsionConcentration)
	set(process.QuenchPressure, r.QuenchPressure)
	return process.NewParameterSet(values)
}

// RecommendRequest asks for adjustments to a run of a known quality.
type RecommendRequest struct {
	Parameters *RunParameters `json:"parameters" validate:"required"`
	Quality    string         `json:"quality" validate:"required"`
}

// ClassificationResponse is returned by POST /api/v1/classify.
type ClassificationResponse struct {
	Quality process.Label `json:"quality"`
	Best    bool          `json:"best"`
}

// RecommendationResponse is returned by POST /api/v1/recommend.
type RecommendationResponse struct {
	Quality     process.Label       `json:"quality"`
	Suggestions process.Suggestions `json:"suggestions"`
}

// BatchRowResult is the outcome for one CSV row. Row numbers are 1-based
// and exclude the header.
type BatchRowResult struct {
	Row        int                 `json:"row"`
	Assessment *process.Assessment `json:"assessment,omitempty"`
	Error      *APIError           `json:"error,omitempty"`
}

// BatchAssessmentResponse is returned by POST /api/v1/assess/batch.
type BatchAssessmentResponse struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []BatchRowResult `json:"results"`
}

// RangeResponse is one entry of the range table.
type RangeResponse struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RangesResponse lists the bound of every adjustable parameter.
type RangesResponse struct {
	BestLabel process.Label                       `json:"best_label"`
	Ranges    map[process.Parameter]RangeResponse `json:"ranges"`
}

// NewRangesResponse converts a range table for serialization.
func NewRangesResponse(best process.Label, table map[process.Parameter]adjust.Range) RangesResponse {
	out := RangesResponse{
		BestLabel: best,
		Ranges:    make(map[process.Parameter]RangeResponse, len(table)),
	}
	for p, r := range table {
		out.Ranges[p] = RangeResponse{Min: r.Min, Max: r.Max}
	}
	return out
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Ready     bool   `json:"ready"`
	Version   string `json:"version,omitempty"`
	UptimeSec int64  `json:"uptime_seconds"`
}
