// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

// Package logging provides centralized zerolog-based structured logging.
//
// A global logger is configured once at startup and shared by every
// package. JSON output is the default; console output is available for
// local development.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("quality", "low").Msg("Run assessed")
//
// Components take a tagged child logger instead of using the globals:
//
//	engine, err := advisor.NewEngine(cfg, logging.WithComponent("advisor"))
//
// # Request Context
//
// The HTTP middleware stores a request ID and a short correlation ID on
// the request context. Ctx returns a logger carrying both:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Assessment failed")
//
// # slog Bridge
//
// The supervisor tree logs through log/slog. NewSlogLogger adapts the
// global zerolog logger so those events share the same stream and level.
//
// # Thread Safety
//
// The global logger is guarded by a RWMutex. Init and SetLogger may be
// called at any time; loggers already handed out keep their old writer.
package logging
