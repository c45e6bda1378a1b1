// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

// Package process defines the process-parameter vocabulary shared by the
// classifier, the adjustment recommender and the HTTP API.
//
// A casting run is described by eight measured parameters. Their order is
// fixed and doubles as the feature order of the quality model:
//
//	casting_temperature, cooling_temp, casting_speed, entry_temp,
//	emulsion_temp, emulsion_pressure, emulsion_concentration, quench_pressure
//
// casting_temperature is the driver of every target function and is never
// adjusted itself; the remaining seven parameters are adjustable.
//
// # ParameterSet
//
// ParameterSet is an immutable value built through NewParameterSet, which
// rejects missing keys, unknown keys and non-finite numbers:
//
//	ps, err := process.NewParameterSet(map[string]float64{
//	    "casting_temperature": 700,
//	    "cooling_temp":        25,
//	    // ...
//	})
//	if errors.Is(err, process.ErrMissingParameter) {
//	    // reject the request
//	}
package process
