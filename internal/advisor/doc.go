// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

// Package advisor ties the quality model and the adjustment recommender into
// a single engine with an explicit lifecycle.
//
// # Lifecycle
//
//	engine, err := advisor.NewEngine(advisor.DefaultConfig(), logger)
//	ds, err := dataset.LoadFile("history.csv", dataset.DefaultLabelColumn)
//	if err := engine.Init(ctx, ds); err != nil {
//	    // fatal: the service cannot classify
//	}
//	defer engine.Shutdown()
//
//	assessment, err := engine.Assess(ctx, params)
//
// Init fits the model exactly once. Everything needed to serve requests is
// immutable afterwards, so concurrent callers never contend on a lock.
//
// # Errors
//
//   - classifier.ErrNotFitted: Classify before Init or after Shutdown
//   - adjust.ErrDivisionByZero: an adjustable parameter is zero
//   - ErrAlreadyInitialized: a second Init
package advisor
