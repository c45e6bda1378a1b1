// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package classifier

import (
	"context"
	"fmt"
	"time"
)

// Model pairs a fitted Scaler with a Forest trained on the scaled features.
// Raw feature vectors go in; the scaler is applied before every prediction.
type Model struct {
	scaler       *Scaler
	forest       *Forest
	rows         int
	trainingTime time.Duration
}

// ModelInfo summarizes a fitted model.
type ModelInfo struct {
	Classes      []string      `json:"classes"`
	NumTrees     int           `json:"num_trees"`
	Seed         int64         `json:"seed"`
	MaxTreeDepth int           `json:"max_tree_depth"`
	TrainingRows int           `json:"training_rows"`
	FittedAt     time.Time     `json:"fitted_at"`
	TrainingTime time.Duration `json:"training_time_ns"`
	FeatureMeans []float64     `json:"feature_means"`
	FeatureStds  []float64     `json:"feature_stds"`
}

// Train fits a scaler on x, then a forest on the scaled rows.
func Train(ctx context.Context, x [][]float64, labels []string, cfg ForestConfig) (*Model, error) {
	start := time.Now()

	scaler := NewScaler()
	if err := scaler.Fit(x); err != nil {
		return nil, err
	}
	scaled, err := scaler.TransformAll(x)
	if err != nil {
		return nil, fmt.Errorf("scale training data: %w", err)
	}

	forest, err := NewForest(cfg)
	if err != nil {
		return nil, err
	}
	if err := forest.Fit(ctx, scaled, labels); err != nil {
		return nil, err
	}

	return &Model{
		scaler:       scaler,
		forest:       forest,
		rows:         len(x),
		trainingTime: time.Since(start),
	}, nil
}

// Predict classifies a raw feature vector.
func (m *Model) Predict(x []float64) (string, error) {
	scaled, err := m.scaler.Transform(x)
	if err != nil {
		return "", err
	}
	return m.forest.Predict(scaled)
}

// Votes returns per-class tree votes for a raw feature vector.
func (m *Model) Votes(x []float64) (map[string]int, error) {
	scaled, err := m.scaler.Transform(x)
	if err != nil {
		return nil, err
	}
	votes, err := m.forest.Votes(scaled)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(votes))
	for i, c := range m.forest.classes {
		out[c] = votes[i]
	}
	return out, nil
}

// Classes returns the known classes in first-seen order.
func (m *Model) Classes() []string {
	return m.forest.Classes()
}

// Info describes the fitted model.
func (m *Model) Info() ModelInfo {
	cfg := m.forest.Config()
	return ModelInfo{
		Classes:      m.forest.Classes(),
		NumTrees:     cfg.NumTrees,
		Seed:         cfg.Seed,
		MaxTreeDepth: m.forest.MaxTreeDepth(),
		TrainingRows: m.rows,
		FittedAt:     m.forest.FittedAt(),
		TrainingTime: m.trainingTime,
		FeatureMeans: m.scaler.Mean(),
		FeatureStds:  m.scaler.Std(),
	}
}
