// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package advisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/castadvisor/internal/adjust"
	"github.com/tomtom215/castadvisor/internal/classifier"
	"github.com/tomtom215/castadvisor/internal/dataset"
	"github.com/tomtom215/castadvisor/internal/metrics"
	"github.com/tomtom215/castadvisor/internal/process"
)

// Lifecycle errors.
var (
	ErrAlreadyInitialized = errors.New("advisor already initialized")
	ErrShutdown           = errors.New("advisor is shut down")
)

// Engine classifies casting runs and recommends bounded adjustments.
//
// The quality model is fitted once by Init and published through an atomic
// pointer, so Classify, Recommend and Assess never take a lock. Shutdown
// withdraws the model; later classifications fail with classifier.ErrNotFitted.
type Engine struct {
	config      Config
	logger      zerolog.Logger
	recommender *adjust.Recommender

	model atomic.Pointer[classifier.Model]

	initMu      sync.Mutex
	initialized bool

	// stateMu orders model publication against Shutdown.
	stateMu   sync.Mutex
	shutdown  bool
	fitCancel context.CancelFunc

	classifications atomic.Int64
	recommendations atomic.Int64
	failures        atomic.Int64
}

// Status describes the engine for health and introspection endpoints.
type Status struct {
	Ready           bool                  `json:"ready"`
	BestLabel       process.Label         `json:"best_label"`
	Model           *classifier.ModelInfo `json:"model,omitempty"`
	Classifications int64                 `json:"classifications"`
	Recommendations int64                 `json:"recommendations"`
	Failures        int64                 `json:"failures"`
}

// NewEngine creates an engine with validated configuration.
// The engine cannot classify until Init has fitted the model.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg Config, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = cfg.Clone()

	ranges, err := adjust.NewRangeTable(cfg.Ranges)
	if err != nil {
		return nil, err
	}
	engineLogger := logger.With().Str("component", "advisor").Logger()

	recommender, err := adjust.NewRecommender(ranges, adjust.DefaultTargets(), engineLogger)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:      cfg,
		logger:      engineLogger,
		recommender: recommender,
	}, nil
}

// Init fits the scaler and forest on the historical dataset and publishes
// the model. It may succeed only once per engine. A Shutdown during fitting
// cancels the fit, and Init returns ErrShutdown without publishing.
func (e *Engine) Init(ctx context.Context, ds *dataset.Dataset) error {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	if e.initialized {
		return ErrAlreadyInitialized
	}
	if ds == nil || ds.Len() == 0 {
		return fmt.Errorf("init: %w", classifier.ErrEmptyDataset)
	}

	if e.config.FitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.FitTimeout)
		defer cancel()
	}

	e.stateMu.Lock()
	if e.shutdown {
		e.stateMu.Unlock()
		return fmt.Errorf("init: %w", ErrShutdown)
	}
	ctx, cancel := context.WithCancel(ctx)
	e.fitCancel = cancel
	e.stateMu.Unlock()
	defer func() {
		e.stateMu.Lock()
		e.fitCancel = nil
		e.stateMu.Unlock()
		cancel()
	}()

	e.logger.Info().
		Int("rows", ds.Len()).
		Int("trees", e.config.Forest.NumTrees).
		Int64("seed", e.config.Forest.Seed).
		Msg("fitting quality model")

	start := time.Now()
	model, err := classifier.Train(ctx, ds.Features, ds.Labels, e.config.Forest)
	if err != nil {
		if e.isShutdown() {
			return fmt.Errorf("init: %w", ErrShutdown)
		}
		return fmt.Errorf("init: %w", err)
	}
	elapsed := time.Since(start)

	classes := model.Classes()
	if !containsLabel(classes, string(e.config.BestLabel)) {
		e.logger.Warn().
			Str("best_label", string(e.config.BestLabel)).
			Strs("classes", classes).
			Msg("best label never appears in the dataset; every run will receive suggestions")
	}

	e.stateMu.Lock()
	if e.shutdown {
		e.stateMu.Unlock()
		e.logger.Warn().Msg("engine shut down during fit; model discarded")
		return fmt.Errorf("init: %w", ErrShutdown)
	}
	e.model.Store(model)
	e.initialized = true
	e.stateMu.Unlock()

	metrics.RecordModelFit(elapsed, ds.Len(), e.config.Forest.NumTrees, len(classes))

	e.logger.Info().
		Dur("duration", elapsed).
		Strs("classes", classes).
		Msg("quality model ready")
	return nil
}

// Shutdown withdraws the model and cancels a fit in progress. It is safe
// to call more than once.
func (e *Engine) Shutdown() {
	e.stateMu.Lock()
	if e.shutdown {
		e.stateMu.Unlock()
		return
	}
	e.shutdown = true
	if e.fitCancel != nil {
		e.fitCancel()
	}
	e.model.Store(nil)
	e.stateMu.Unlock()

	metrics.RecordModelUnloaded()
	e.logger.Info().
		Int64("classifications", e.classifications.Load()).
		Int64("recommendations", e.recommendations.Load()).
		Msg("advisor shut down")
}

func (e *Engine) isShutdown() bool {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.shutdown
}

// Ready reports whether a fitted model is serving.
func (e *Engine) Ready() bool {
	return e.model.Load() != nil
}

// BestLabel returns the quality class that receives no suggestions.
func (e *Engine) BestLabel() process.Label {
	return e.config.BestLabel
}

// Ranges returns a copy of the configured range table.
func (e *Engine) Ranges() map[process.Parameter]adjust.Range {
	return e.recommender.Ranges().All()
}

// Classify predicts the quality class of a casting run.
func (e *Engine) Classify(ctx context.Context, ps process.ParameterSet) (process.Label, error) {
	start := time.Now()
	label, err := e.classify(ctx, ps)
	if err != nil {
		e.fail("classify", err)
		return "", err
	}
	metrics.RecordClassification(string(label), time.Since(start))
	return label, nil
}

func (e *Engine) classify(ctx context.Context, ps process.ParameterSet) (process.Label, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	model := e.model.Load()
	if model == nil {
		return "", fmt.Errorf("classify: %w", classifier.ErrNotFitted)
	}
	label, err := model.Predict(ps.Vector())
	if err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}
	e.classifications.Add(1)
	return process.Label(label), nil
}

// Recommend returns adjustment suggestions for a run of the given quality.
// The best label yields an empty, non-nil mapping.
func (e *Engine) Recommend(ctx context.Context, ps process.ParameterSet, label process.Label) (process.Suggestions, error) {
	start := time.Now()
	suggestions, err := e.recommend(ctx, ps, label)
	if err != nil {
		e.fail("recommend", err)
		return nil, err
	}
	metrics.RecordRecommendation(suggestions, time.Since(start))
	return suggestions, nil
}

func (e *Engine) recommend(ctx context.Context, ps process.ParameterSet, label process.Label) (process.Suggestions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if label == e.config.BestLabel {
		return process.Suggestions{}, nil
	}
	suggestions, err := e.recommender.Suggest(ps)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	e.recommendations.Add(1)
	return suggestions, nil
}

// Assess classifies a run and, unless it is of the best quality, recommends
// adjustments.
func (e *Engine) Assess(ctx context.Context, ps process.ParameterSet) (*process.Assessment, error) {
	start := time.Now()

	label, err := e.Classify(ctx, ps)
	if err != nil {
		return nil, err
	}
	suggestions, err := e.Recommend(ctx, ps, label)
	if err != nil {
		return nil, err
	}

	metrics.RecordAssessment(time.Since(start))
	return &process.Assessment{
		Quality:     label,
		Best:        label == e.config.BestLabel,
		Suggestions: suggestions,
	}, nil
}

// Status reports the engine's lifecycle state and counters.
func (e *Engine) Status() Status {
	s := Status{
		BestLabel:       e.config.BestLabel,
		Classifications: e.classifications.Load(),
		Recommendations: e.recommendations.Load(),
		Failures:        e.failures.Load(),
	}
	if model := e.model.Load(); model != nil {
		info := model.Info()
		s.Ready = true
		s.Model = &info
	}
	return s
}

func (e *Engine) fail(operation string, err error) {
	e.failures.Add(1)
	metrics.RecordAdvisorError(operation, err)
	e.logger.Debug().Err(err).Str("operation", operation).Msg("advisor operation failed")
}

func containsLabel(classes []string, label string) bool {
	for _, c := range classes {
		if c == label {
			return true
		}
	}
	return false
}
