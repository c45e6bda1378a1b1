// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// ErrModelWithdrawn is returned when the engine stops serving while the
// tree is still running.
var ErrModelWithdrawn = errors.New("quality model withdrawn")

// AdvisorEngine is the lifecycle surface of advisor.Engine.
type AdvisorEngine interface {
	Ready() bool
	Shutdown()
}

// AdvisorServiceConfig holds configuration for the advisor service.
type AdvisorServiceConfig struct {
	// CheckInterval is how often the service confirms the model is still
	// serving. Default: 30s.
	CheckInterval time.Duration

	// DrainedBy, when set, delays engine shutdown until it is closed, so
	// requests still being drained by the API layer keep the model.
	// Typically HTTPServerService.Drained().
	DrainedBy <-chan struct{}

	// DrainTimeout bounds the wait on DrainedBy. Default: 15s.
	DrainTimeout time.Duration
}

// AdvisorService owns the engine's lifetime under suture supervision.
// The model is fitted before the tree starts; this service withdraws it
// when the tree shuts down.
type AdvisorService struct {
	engine AdvisorEngine
	config AdvisorServiceConfig
	logger zerolog.Logger
	name   string
}

// NewAdvisorService creates a new advisor lifecycle service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAdvisorService(engine AdvisorEngine, cfg AdvisorServiceConfig, logger zerolog.Logger) *AdvisorService {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 30 * time.Second
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = 15 * time.Second
	}
	return &AdvisorService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "advisor").Logger(),
		name:   "advisor-service",
	}
}

// Serve implements the suture.Service interface.
//
// An engine that is not serving cannot be revived by a restart, so that
// case returns suture.ErrDoNotRestart. Cancellation shuts the engine down
// after DrainedBy is closed.
func (s *AdvisorService) Serve(ctx context.Context) error {
	if !s.engine.Ready() {
		s.logger.Error().Msg("advisor engine is not ready; service will not start")
		return suture.ErrDoNotRestart
	}

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	s.logger.Info().Msg("advisor service running")

	for {
		select {
		case <-ctx.Done():
			s.waitForDrain()
			s.logger.Info().Msg("advisor service shutting down")
			s.engine.Shutdown()
			return ctx.Err()

		case <-ticker.C:
			if !s.engine.Ready() {
				s.logger.Error().Err(ErrModelWithdrawn).Msg("advisor engine stopped serving")
				return suture.ErrDoNotRestart
			}
		}
	}
}

func (s *AdvisorService) waitForDrain() {
	if s.config.DrainedBy == nil {
		return
	}
	timer := time.NewTimer(s.config.DrainTimeout)
	defer timer.Stop()

	select {
	case <-s.config.DrainedBy:
	case <-timer.C:
		s.logger.Warn().Dur("timeout", s.config.DrainTimeout).Msg("api layer still draining; withdrawing model")
	}
}

// String returns the service name for logging.
func (s *AdvisorService) String() string {
	return s.name
}
