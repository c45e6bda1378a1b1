// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

// Package dataset reads casting records from CSV.
//
// The historical dataset carries the eight process parameters plus a quality
// label column and is used once at startup to fit the model. Batch uploads
// use the same layout without the label.
package dataset
