// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

// Package adjust turns a ParameterSet into bounded per-parameter setpoint
// suggestions.
//
// For each adjustable parameter p with a registered target function f:
//
//	optimal = clamp(f(casting_temperature), range[p].min, range[p].max)
//	change  = (optimal - current) / current * 100
//
// Parameters without a target function are skipped. A zero current value
// fails the whole call with ErrDivisionByZero.
package adjust
