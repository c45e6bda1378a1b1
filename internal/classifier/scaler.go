// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package classifier

import (
	"fmt"
	"math"
)

// Scaler standardizes features to zero mean and unit variance using the
// population standard deviation of the training data.
type Scaler struct {
	baseEstimator

	mean []float64
	std  []float64
}

// NewScaler creates an unfitted scaler.
func NewScaler() *Scaler {
	return &Scaler{baseEstimator: baseEstimator{name: "scaler"}}
}

// Fit computes per-column mean and population standard deviation.
// A column with zero variance fails with ErrConstantFeature.
func (s *Scaler) Fit(rows [][]float64) error {
	release, err := s.beginFit()
	if err != nil {
		return err
	}
	defer release()

	if len(rows) == 0 {
		return fmt.Errorf("scaler: %w", ErrEmptyDataset)
	}
	width := len(rows[0])
	if width == 0 {
		return fmt.Errorf("scaler: %w: rows have no columns", ErrDimensionMismatch)
	}

	mean := make([]float64, width)
	for i, row := range rows {
		if len(row) != width {
			return fmt.Errorf("scaler: %w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), width)
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}

	std := make([]float64, width)
	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
		if std[j] == 0 || math.IsNaN(std[j]) {
			return fmt.Errorf("scaler: %w: column %d", ErrConstantFeature, j)
		}
	}

	s.mean = mean
	s.std = std
	s.markFitted()
	return nil
}

// Transform returns the standardized copy of x.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if err := s.checkFitted(); err != nil {
		return nil, err
	}
	if len(x) != len(s.mean) {
		return nil, fmt.Errorf("scaler: %w: got %d features, want %d", ErrDimensionMismatch, len(x), len(s.mean))
	}
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.mean[j]) / s.std[j]
	}
	return out, nil
}

// TransformAll standardizes every row.
func (s *Scaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		t, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}

// Mean returns a copy of the fitted column means.
func (s *Scaler) Mean() []float64 {
	if !s.IsFitted() {
		return nil
	}
	return append([]float64(nil), s.mean...)
}

// Std returns a copy of the fitted column standard deviations.
func (s *Scaler) Std() []float64 {
	if !s.IsFitted() {
		return nil
	}
	return append([]float64(nil), s.std...)
}
