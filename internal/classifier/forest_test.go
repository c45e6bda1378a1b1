// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package classifier

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
)

// separableData returns two clusters that differ on every feature.
func separableData(n, width int, seed int64) ([][]float64, []string) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, 0, 2*n)
	y := make([]string, 0, 2*n)
	for i := 0; i < n; i++ {
		lo := make([]float64, width)
		hi := make([]float64, width)
		for j := 0; j < width; j++ {
			lo[j] = rng.Float64()
			hi[j] = 10 + rng.Float64()
		}
		x = append(x, lo, hi)
		y = append(y, "low", "high")
	}
	return x, y
}

// noisyData returns overlapping classes so trees are non-trivial.
func noisyData(n, width int, seed int64) ([][]float64, []string) {
	rng := rand.New(rand.NewSource(seed))
	labels := []string{"low", "medium", "high"}
	x := make([][]float64, n)
	y := make([]string, n)
	for i := range x {
		row := make([]float64, width)
		for j := range row {
			row[j] = rng.NormFloat64()
		}
		x[i] = row
		c := 0
		if row[0]+0.5*rng.NormFloat64() > 0.3 {
			c = 2
		} else if row[1] > 0 {
			c = 1
		}
		y[i] = labels[c]
	}
	return x, y
}

func TestForest_SeparableAccuracy(t *testing.T) {
	t.Parallel()

	x, y := separableData(50, 8, 1)
	f, err := NewForest(DefaultForestConfig())
	if err != nil {
		t.Fatalf("NewForest() error = %v", err)
	}
	if err := f.Fit(context.Background(), x, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	tx, ty := separableData(20, 8, 2)
	for i := range tx {
		got, err := f.Predict(tx[i])
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if got != ty[i] {
			t.Errorf("Predict(row %d) = %q, want %q", i, got, ty[i])
		}
	}

	classes := f.Classes()
	if len(classes) != 2 || classes[0] != "low" || classes[1] != "high" {
		t.Errorf("Classes() = %v, want [low high]", classes)
	}
}

func TestForest_Deterministic(t *testing.T) {
	t.Parallel()

	x, y := noisyData(200, 8, 7)
	cfg := DefaultForestConfig()
	cfg.Seed = 99

	fit := func(workers int) *Forest {
		c := cfg
		c.Workers = workers
		f, err := NewForest(c)
		if err != nil {
			t.Fatalf("NewForest() error = %v", err)
		}
		if err := f.Fit(context.Background(), x, y); err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
		return f
	}

	a := fit(1)
	b := fit(4)

	probe, _ := noisyData(100, 8, 8)
	for i, row := range probe {
		va, _ := a.Votes(row)
		vb, _ := b.Votes(row)
		for c := range va {
			if va[c] != vb[c] {
				t.Fatalf("probe %d: votes differ between runs: %v vs %v", i, va, vb)
			}
		}
	}
}

func TestForest_VotesSumToTreeCount(t *testing.T) {
	t.Parallel()

	x, y := noisyData(100, 4, 3)
	cfg := DefaultForestConfig()
	cfg.NumTrees = 7
	f, _ := NewForest(cfg)
	if err := f.Fit(context.Background(), x, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	votes, err := f.Votes(x[0])
	if err != nil {
		t.Fatalf("Votes() error = %v", err)
	}
	total := 0
	for _, v := range votes {
		total += v
	}
	if total != 7 {
		t.Errorf("sum of votes = %d, want 7", total)
	}
}

func TestForest_Errors(t *testing.T) {
	t.Parallel()

	t.Run("predict before fit", func(t *testing.T) {
		t.Parallel()
		f, _ := NewForest(DefaultForestConfig())
		_, err := f.Predict([]float64{1})
		if !errors.Is(err, ErrNotFitted) || !IsNotFitted(err) {
			t.Errorf("Predict() error = %v, want ErrNotFitted", err)
		}
	})

	t.Run("label mismatch", func(t *testing.T) {
		t.Parallel()
		f, _ := NewForest(DefaultForestConfig())
		err := f.Fit(context.Background(), [][]float64{{1}, {2}}, []string{"a"})
		if !errors.Is(err, ErrLabelMismatch) {
			t.Errorf("Fit() error = %v, want ErrLabelMismatch", err)
		}
	})

	t.Run("empty dataset", func(t *testing.T) {
		t.Parallel()
		f, _ := NewForest(DefaultForestConfig())
		if err := f.Fit(context.Background(), nil, nil); !errors.Is(err, ErrEmptyDataset) {
			t.Errorf("Fit() error = %v, want ErrEmptyDataset", err)
		}
	})

	t.Run("wrong width on predict", func(t *testing.T) {
		t.Parallel()
		x, y := separableData(5, 3, 1)
		f, _ := NewForest(DefaultForestConfig())
		if err := f.Fit(context.Background(), x, y); err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
		if _, err := f.Predict([]float64{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("Predict() error = %v, want ErrDimensionMismatch", err)
		}
	})

	t.Run("second fit", func(t *testing.T) {
		t.Parallel()
		x, y := separableData(5, 3, 1)
		f, _ := NewForest(DefaultForestConfig())
		if err := f.Fit(context.Background(), x, y); err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
		if err := f.Fit(context.Background(), x, y); !errors.Is(err, ErrAlreadyFitted) {
			t.Errorf("second Fit() error = %v, want ErrAlreadyFitted", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		x, y := separableData(5, 3, 1)
		f, _ := NewForest(DefaultForestConfig())
		if err := f.Fit(ctx, x, y); !errors.Is(err, context.Canceled) {
			t.Errorf("Fit() error = %v, want context.Canceled", err)
		}
		if f.IsFitted() {
			t.Error("forest reports fitted after canceled training")
		}
	})
}

func TestForestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *ForestConfig)
	}{
		{"zero trees", func(c *ForestConfig) { c.NumTrees = 0 }},
		{"negative depth", func(c *ForestConfig) { c.MaxDepth = -1 }},
		{"min split below two", func(c *ForestConfig) { c.MinSamplesSplit = 1 }},
		{"zero min leaf", func(c *ForestConfig) { c.MinSamplesLeaf = 0 }},
		{"negative max features", func(c *ForestConfig) { c.MaxFeatures = -2 }},
		{"negative workers", func(c *ForestConfig) { c.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultForestConfig()
			tt.mutate(&cfg)
			if _, err := NewForest(cfg); err == nil {
				t.Error("NewForest() should reject config")
			}
		})
	}

	cfg := DefaultForestConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestForest_ConcurrentPredict(t *testing.T) {
	t.Parallel()

	x, y := noisyData(150, 8, 11)
	f, _ := NewForest(DefaultForestConfig())
	if err := f.Fit(context.Background(), x, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	want := make([]string, len(x))
	for i, row := range x {
		want[i], _ = f.Predict(row)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, row := range x {
				got, err := f.Predict(row)
				if err != nil || got != want[i] {
					t.Errorf("concurrent Predict(row %d) = %q, %v; want %q", i, got, err, want[i])
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestEncodeLabels_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	classes, y := encodeLabels([]string{"medium", "high", "medium", "low", "high"})
	wantClasses := []string{"medium", "high", "low"}
	wantY := []int{0, 1, 0, 2, 1}
	for i := range wantClasses {
		if classes[i] != wantClasses[i] {
			t.Errorf("classes[%d] = %q, want %q", i, classes[i], wantClasses[i])
		}
	}
	for i := range wantY {
		if y[i] != wantY[i] {
			t.Errorf("y[%d] = %d, want %d", i, y[i], wantY[i])
		}
	}
}

func TestArgmax_TiesGoToFirst(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   []int
		want int
	}{
		{[]int{3, 3, 1}, 0},
		{[]int{1, 4, 4}, 1},
		{[]int{0}, 0},
		{[]int{2, 5, 1}, 1},
	}
	for _, c := range cases {
		if got := argmax(c.in); got != c.want {
			t.Errorf("argmax(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}
