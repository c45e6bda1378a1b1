// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

// Package models defines the JSON request and response types of the HTTP API.
//
// Every endpoint wraps its payload in APIResponse. Request bodies use
// pointer fields with validator tags so that an omitted parameter is
// reported as MISSING_PARAMETER rather than silently read as zero.
package models
