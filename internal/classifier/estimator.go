// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package classifier

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Errors shared by every estimator in this package.
var (
	ErrNotFitted         = errors.New("model not fitted")
	ErrAlreadyFitted     = errors.New("model already fitted")
	ErrEmptyDataset      = errors.New("empty training dataset")
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
	ErrLabelMismatch     = errors.New("labels do not match rows")
	ErrConstantFeature   = errors.New("feature has zero variance")
)

// baseEstimator provides the fit-once lifecycle shared by all estimators.
// Fitting is serialized by mu; reads after fitting only consult the atomic flag.
type baseEstimator struct {
	name     string
	mu       sync.Mutex
	fitted   atomic.Bool
	fittedAt time.Time
}

// Name returns the estimator name.
func (b *baseEstimator) Name() string {
	return b.name
}

// IsFitted reports whether Fit completed successfully.
func (b *baseEstimator) IsFitted() bool {
	return b.fitted.Load()
}

// FittedAt returns when fitting completed, or the zero time.
func (b *baseEstimator) FittedAt() time.Time {
	if !b.fitted.Load() {
		return time.Time{}
	}
	return b.fittedAt
}

// beginFit takes the fit lock. The caller must call the returned release
// function; it is nil when an error is returned.
func (b *baseEstimator) beginFit() (func(), error) {
	b.mu.Lock()
	if b.fitted.Load() {
		b.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", b.name, ErrAlreadyFitted)
	}
	return b.mu.Unlock, nil
}

// markFitted publishes the fitted state. Must be called with mu held.
func (b *baseEstimator) markFitted() {
	b.fittedAt = time.Now()
	b.fitted.Store(true)
}

// checkFitted returns ErrNotFitted when the estimator is unusable.
func (b *baseEstimator) checkFitted() error {
	if !b.fitted.Load() {
		return fmt.Errorf("%s: %w", b.name, ErrNotFitted)
	}
	return nil
}
