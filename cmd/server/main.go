// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/castadvisor/internal/advisor"
	"github.com/tomtom215/castadvisor/internal/api"
	"github.com/tomtom215/castadvisor/internal/config"
	"github.com/tomtom215/castadvisor/internal/dataset"
	"github.com/tomtom215/castadvisor/internal/logging"
	"github.com/tomtom215/castadvisor/internal/supervisor"
	"github.com/tomtom215/castadvisor/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.ToLoggingConfig())
	logging.Info().Str("version", version).Msg("Starting Castadvisor with supervisor tree")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().
			Strs("cors_origins", cfg.Security.CORSOrigins).
			Msg("CORS allows any origin in production; set CORS_ORIGINS to trusted origins")
	}

	logging.Info().
		Str("dataset", cfg.Dataset.Path).
		Str("label_column", cfg.Dataset.LabelColumn).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	ds, err := dataset.LoadFile(cfg.Dataset.Path, cfg.Dataset.LabelColumn)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Dataset.Path).Msg("Failed to load historical dataset")
	}
	logging.Info().
		Int("rows", ds.Len()).
		Interface("classes", ds.ClassCounts()).
		Msg("Historical dataset loaded")

	engine, err := advisor.NewEngine(cfg.ToAdvisorConfig(), logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create advisor engine")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The model must be serving before the API accepts traffic.
	if err := engine.Init(ctx, ds); err != nil {
		stop()
		logging.Fatal().Err(err).Msg("Failed to fit quality model")
	}

	handler := api.NewHandler(engine, api.HandlerConfig{
		MaxRequestBytes: cfg.Server.MaxRequestBytes,
		MaxBatchRows:    cfg.Server.MaxBatchRows,
		Version:         version,
	})
	chiMiddleware := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, chiMiddleware)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		engine.Shutdown()
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// The model stays published until the API layer has drained.
	httpService := services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("supervisor"))
	tree.AddModelService(services.NewAdvisorService(engine, services.AdvisorServiceConfig{
		DrainedBy:    httpService.Drained(),
		DrainTimeout: cfg.Server.ShutdownTimeout + time.Second,
	}, logging.WithComponent("supervisor")))
	tree.AddAPIService(httpService)
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	// The advisor service normally does this; cover the case where it never ran.
	engine.Shutdown()

	status := engine.Status()
	logging.Info().
		Int64("classifications", status.Classifications).
		Int64("recommendations", status.Recommendations).
		Int64("failures", status.Failures).
		Msg("Application stopped gracefully")

	if ctx.Err() == nil {
		os.Exit(1)
	}
}
