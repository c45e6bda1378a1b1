// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by all handlers. Fields are reported
// by their JSON names and a custom "finite" tag rejects NaN and infinities.
//
//	type ClassifyRequest struct {
//	    CastingTemperature *float64 `json:"casting_temperature" validate:"required,finite"`
//	}
//
// ToAPIError maps a request that only omits required fields to
// MISSING_PARAMETER and every other failure to INVALID_PARAMETER.
package validation
