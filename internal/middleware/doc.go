// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

/*
Package middleware provides HTTP middleware for the advisor API.

Key Components:

  - RequestID: UUID-based request tracking, echoed in X-Request-ID
  - PrometheusMetrics: request count, latency and in-flight gauge per route
  - AccessLog: one structured zerolog line per request

All three use the http.HandlerFunc form and are adapted to chi with the
router's chiMiddleware helper:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.AccessLog(500 * time.Millisecond)))

RequestID must run first so the other two can read the IDs from context.
*/
package middleware
