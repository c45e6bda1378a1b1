// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

/*
Package api provides the HTTP REST API layer for Castadvisor.

Key Components:

  - Router: chi route configuration and middleware stack
  - Handler: request handlers backed by an Advisor (normally *advisor.Engine)
  - Response formatting: every endpoint returns models.APIResponse
  - Error mapping: advisor and decoding errors become stable error codes

Endpoints:

	GET  /api/v1/health/live     always 200 while the process runs
	GET  /api/v1/health/ready    200 once the quality model is fitted, else 503
	GET  /api/v1/model           engine status and model summary
	GET  /api/v1/ranges          clamp bounds of the adjustable parameters
	POST /api/v1/classify        eight parameters -> quality
	POST /api/v1/recommend       {parameters, quality} -> suggestions
	POST /api/v1/assess          eight parameters -> quality, best, suggestions
	POST /api/v1/assess/batch    CSV upload -> per-row assessments
	GET  /metrics                Prometheus exposition

Error codes and statuses:

	MISSING_PARAMETER    400  a process parameter is absent or null
	INVALID_PARAMETER    400  unknown key, non-numeric or non-finite value
	BAD_REQUEST          400  unreadable body, malformed CSV, too many rows (413/415 for size and type)
	DIVISION_BY_ZERO     422  an adjustable parameter's current value is zero
	RATE_LIMIT_EXCEEDED  429
	MODEL_NOT_READY      503  the model is not fitted or has been withdrawn
	INTERNAL_ERROR       500

Usage Example:

	engine, _ := advisor.NewEngine(cfg.ToAdvisorConfig(), logging.Logger())
	_ = engine.Init(ctx, ds)

	handler := api.NewHandler(engine, api.HandlerConfig{
	    MaxRequestBytes: cfg.Server.MaxRequestBytes,
	    MaxBatchRows:    cfg.Server.MaxBatchRows,
	})
	mw := api.NewChiMiddlewareFromSecurity(cfg.Security.CORSOrigins,
	    cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow, cfg.Security.RateLimitDisabled)
	srv := &http.Server{Addr: ":8080", Handler: api.NewRouter(handler, mw).SetupChi()}

Thread Safety:

Handlers hold no mutable state; concurrency safety comes from the Advisor.
*/
package api
