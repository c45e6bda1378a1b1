// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
)

// ForestConfig controls random forest training.
type ForestConfig struct {
	// NumTrees is the number of bootstrap trees.
	// Default: 20.
	NumTrees int

	// Seed makes bootstrap sampling and feature selection reproducible.
	// Default: 0.
	Seed int64

	// MaxDepth limits tree depth. 0 grows until leaves are pure.
	// Default: 0.
	MaxDepth int

	// MinSamplesSplit is the minimum node size that may be split.
	// Default: 2.
	MinSamplesSplit int

	// MinSamplesLeaf is the minimum number of samples in each child.
	// Default: 1.
	MinSamplesLeaf int

	// MaxFeatures is the number of features examined per split.
	// 0 selects floor(sqrt(n_features)).
	// Default: 0.
	MaxFeatures int

	// Workers bounds parallel tree construction. 0 uses runtime.NumCPU().
	// Default: 0.
	Workers int
}

// DefaultForestConfig returns the production forest settings.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NumTrees:        20,
		Seed:            0,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Workers:         0,
	}
}

// Validate checks the configuration for invalid values.
func (c *ForestConfig) Validate() error {
	if c.NumTrees < 1 {
		return fmt.Errorf("num_trees must be at least 1, got %d", c.NumTrees)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative, got %d", c.MaxDepth)
	}
	if c.MinSamplesSplit < 2 {
		return fmt.Errorf("min_samples_split must be at least 2, got %d", c.MinSamplesSplit)
	}
	if c.MinSamplesLeaf < 1 {
		return fmt.Errorf("min_samples_leaf must be at least 1, got %d", c.MinSamplesLeaf)
	}
	if c.MaxFeatures < 0 {
		return fmt.Errorf("max_features must be non-negative, got %d", c.MaxFeatures)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

// Forest is a bagged ensemble of CART trees predicting by plurality vote.
// After Fit it is immutable and safe for concurrent prediction.
type Forest struct {
	baseEstimator

	config    ForestConfig
	classes   []string
	trees     []*decisionTree
	nFeatures int
}

// NewForest creates an unfitted forest.
func NewForest(cfg ForestConfig) (*Forest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid forest config: %w", err)
	}
	return &Forest{
		baseEstimator: baseEstimator{name: "forest"},
		config:        cfg,
	}, nil
}

// Fit trains the forest on feature rows x and their labels.
//
// Classes are indexed in order of first appearance in labels; that order
// breaks ties in both leaf majorities and the final vote.
func (f *Forest) Fit(ctx context.Context, x [][]float64, labels []string) error {
	release, err := f.beginFit()
	if err != nil {
		return err
	}
	defer release()

	if len(x) == 0 {
		return fmt.Errorf("forest: %w", ErrEmptyDataset)
	}
	if len(labels) != len(x) {
		return fmt.Errorf("forest: %w: %d rows, %d labels", ErrLabelMismatch, len(x), len(labels))
	}
	width := len(x[0])
	if width == 0 {
		return fmt.Errorf("forest: %w: rows have no columns", ErrDimensionMismatch)
	}
	for i, row := range x {
		if len(row) != width {
			return fmt.Errorf("forest: %w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), width)
		}
	}

	classes, y := encodeLabels(labels)
	params := treeParams{
		maxDepth:        f.config.MaxDepth,
		minSamplesSplit: f.config.MinSamplesSplit,
		minSamplesLeaf:  f.config.MinSamplesLeaf,
		maxFeatures:     f.config.MaxFeatures,
	}
	if params.maxFeatures == 0 || params.maxFeatures > width {
		params.maxFeatures = max(1, int(math.Sqrt(float64(width))))
	}

	// Per-tree seeds are drawn up front so results do not depend on scheduling.
	master := rand.New(rand.NewSource(f.config.Seed)) //nolint:gosec // reproducible sampling, not security
	seeds := make([]int64, f.config.NumTrees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	trees, err := trainTrees(ctx, x, y, len(classes), params, seeds, f.config.Workers)
	if err != nil {
		return fmt.Errorf("forest: %w", err)
	}

	f.classes = classes
	f.trees = trees
	f.nFeatures = width
	f.markFitted()
	return nil
}

// trainTrees builds one tree per seed on a bounded pool of goroutines.
func trainTrees(ctx context.Context, x [][]float64, y []int, nClasses int, params treeParams, seeds []int64, workers int) ([]*decisionTree, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(seeds) {
		workers = len(seeds)
	}

	trees := make([]*decisionTree, len(seeds))
	jobs := make(chan int)
	errCh := make(chan error, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errCh <- err
					return
				}
				rng := rand.New(rand.NewSource(seeds[i])) //nolint:gosec // reproducible sampling, not security
				trees[i] = newTreeBuilder(x, y, nClasses, params, rng).build(bootstrap(len(x), rng))
			}
		}()
	}

	var sendErr error
feed:
	for i := range seeds {
		select {
		case jobs <- i:
		case <-ctx.Done():
			sendErr = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(errCh)

	if sendErr != nil {
		return nil, sendErr
	}
	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}
	return trees, nil
}

// bootstrap draws n sample indices with replacement.
func bootstrap(n int, rng *rand.Rand) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = rng.Intn(n)
	}
	return out
}

// encodeLabels maps labels to class indices in first-seen order.
func encodeLabels(labels []string) ([]string, []int) {
	index := make(map[string]int)
	var classes []string
	y := make([]int, len(labels))
	for i, l := range labels {
		c, ok := index[l]
		if !ok {
			c = len(classes)
			index[l] = c
			classes = append(classes, l)
		}
		y[i] = c
	}
	return classes, y
}

// Votes returns the number of trees voting for each class, aligned with Classes.
func (f *Forest) Votes(x []float64) ([]int, error) {
	if err := f.checkFitted(); err != nil {
		return nil, err
	}
	if len(x) != f.nFeatures {
		return nil, fmt.Errorf("forest: %w: got %d features, want %d", ErrDimensionMismatch, len(x), f.nFeatures)
	}
	votes := make([]int, len(f.classes))
	for _, t := range f.trees {
		votes[t.predict(x)]++
	}
	return votes, nil
}

// Predict returns the plurality class. Ties go to the class seen first in
// the training labels.
func (f *Forest) Predict(x []float64) (string, error) {
	votes, err := f.Votes(x)
	if err != nil {
		return "", err
	}
	return f.classes[argmax(votes)], nil
}

// Classes returns the known classes in first-seen order.
func (f *Forest) Classes() []string {
	if !f.IsFitted() {
		return nil
	}
	return append([]string(nil), f.classes...)
}

// NumTrees returns the configured ensemble size.
func (f *Forest) NumTrees() int {
	return f.config.NumTrees
}

// Config returns the forest configuration.
func (f *Forest) Config() ForestConfig {
	return f.config
}

// MaxTreeDepth returns the depth of the deepest fitted tree.
func (f *Forest) MaxTreeDepth() int {
	depth := 0
	if !f.IsFitted() {
		return depth
	}
	for _, t := range f.trees {
		depth = max(depth, t.depth)
	}
	return depth
}

// IsNotFitted reports whether err signals use before fitting.
func IsNotFitted(err error) bool {
	return errors.Is(err, ErrNotFitted)
}
