// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope returned by every JSON endpoint.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"quality": "low", "best": false, "suggestions": {...}},
//	  "metadata": {
//	    "timestamp": "2026-03-02T09:15:00Z",
//	    "query_time_ms": 2,
//	    "request_id": "7f8d0f4e-0f5b-4b55-9d6a-61bcbf1a1d5e"
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {
//	    "code": "DIVISION_BY_ZERO",
//	    "message": "cooling_temp: current value is zero",
//	    "details": {"parameter": "cooling_temp"}
//	  },
//	  "metadata": {"timestamp": "2026-03-02T09:15:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Error codes:
//   - MISSING_PARAMETER: a required process parameter is absent
//   - INVALID_PARAMETER: a parameter is unknown, non-numeric or non-finite
//   - DIVISION_BY_ZERO: a current setting of zero prevents a percentage change
//   - BAD_REQUEST: the body cannot be read or parsed
//   - MODEL_NOT_READY: the quality model has not been fitted
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - INTERNAL_ERROR: unexpected failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes shared by handlers and middleware.
const (
	ErrCodeMissingParameter  = "MISSING_PARAMETER"
	ErrCodeInvalidParameter  = "INVALID_PARAMETER"
	ErrCodeDivisionByZero    = "DIVISION_BY_ZERO"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeModelNotReady     = "MODEL_NOT_READY"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)
