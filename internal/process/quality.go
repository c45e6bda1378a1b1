// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package process

// Label is a quality class learned from the historical dataset.
// The set of labels is open; the best one is chosen by configuration.
type Label string

// DefaultBestLabel is the quality class that needs no adjustment.
const DefaultBestLabel Label = "high"

func (l Label) String() string {
	return string(l)
}

// Suggestion is the recommended setting for one adjustable parameter.
type Suggestion struct {
	// OptimalValue always lies inside the parameter's configured range.
	OptimalValue float64 `json:"optimal_value"`

	// PercentageChange is (OptimalValue - current) / current * 100.
	PercentageChange float64 `json:"percentage_change"`
}

// Suggestions maps an adjustable parameter to its recommendation.
type Suggestions map[Parameter]Suggestion

// Assessment is the combined classification and recommendation result.
type Assessment struct {
	Quality     Label       `json:"quality"`
	Best        bool        `json:"best"`
	Suggestions Suggestions `json:"suggestions"`
}
