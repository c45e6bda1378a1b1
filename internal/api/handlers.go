// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package api

import (
	"context"
	"time"

	"github.com/tomtom215/castadvisor/internal/adjust"
	"github.com/tomtom215/castadvisor/internal/advisor"
	"github.com/tomtom215/castadvisor/internal/process"
)

// Advisor is the engine surface the handlers depend on.
// *advisor.Engine satisfies it.
type Advisor interface {
	Classify(ctx context.Context, ps process.ParameterSet) (process.Label, error)
	Recommend(ctx context.Context, ps process.ParameterSet, label process.Label) (process.Suggestions, error)
	Assess(ctx context.Context, ps process.ParameterSet) (*process.Assessment, error)
	Status() advisor.Status
	Ranges() map[process.Parameter]adjust.Range
	BestLabel() process.Label
	Ready() bool
}

var _ Advisor = (*advisor.Engine)(nil)

// HandlerConfig holds request limits and build information for the handlers.
type HandlerConfig struct {
	// MaxRequestBytes caps JSON bodies and batch uploads.
	MaxRequestBytes int64

	// MaxBatchRows caps the number of data rows in a batch upload.
	MaxBatchRows int

	Version string
}

// DefaultHandlerConfig returns the limits used when none are configured.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		MaxRequestBytes: 10 << 20,
		MaxBatchRows:    10000,
		Version:         "dev",
	}
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response, decoding and error mapping helpers
//   - handlers_health.go: liveness and readiness probes
//   - handlers_advisor.go: classification, recommendation and batch endpoints
type Handler struct {
	advisor   Advisor
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a handler serving the given advisor.
// Zero limits in cfg fall back to DefaultHandlerConfig.
//
// Example:
//
//	handler := api.NewHandler(engine, api.HandlerConfig{MaxBatchRows: 500})
//	router := api.NewRouter(handler, api.NewChiMiddleware(nil))
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(adv Advisor, cfg HandlerConfig) *Handler {
	def := DefaultHandlerConfig()
	if cfg.MaxRequestBytes <= 0 {
		cfg.MaxRequestBytes = def.MaxRequestBytes
	}
	if cfg.MaxBatchRows <= 0 {
		cfg.MaxBatchRows = def.MaxBatchRows
	}
	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	return &Handler{
		advisor:   adv,
		config:    cfg,
		startTime: time.Now(),
	}
}
