// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

// Package classifier implements the quality model: a standard scaler and a
// random forest of CART trees, both written in pure Go.
//
// # Estimators
//
//   - Scaler: per-column mean and population standard deviation
//   - Forest: bootstrap-aggregated Gini trees with random feature subsets
//     at each split, predicting by plurality vote
//
// Both estimators are fitted exactly once. A second Fit returns
// ErrAlreadyFitted and any use before fitting returns ErrNotFitted. After
// fitting they are immutable and safe for concurrent use without locks.
//
// # Determinism
//
// Each tree draws its bootstrap sample and split features from its own RNG,
// seeded from the forest seed before training starts. Trees are built in
// parallel, yet the same data, seed and tree count always yield the same
// predictions.
//
// # Usage
//
//	model, err := classifier.Train(ctx, rows, labels, classifier.DefaultForestConfig())
//	if err != nil {
//	    return err
//	}
//	label, err := model.Predict(features)
package classifier
