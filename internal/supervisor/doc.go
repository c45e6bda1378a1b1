// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

/*
Package supervisor provides process supervision for Castadvisor using suture v4.

The supervisor tree organizes services into two layers for failure isolation:

	RootSupervisor ("castadvisor")
	├── ModelSupervisor ("model-layer")
	│   └── AdvisorService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed HTTP listener is restarted without refitting the model. The model
itself is fitted before the tree starts, so the model layer only owns its
shutdown.

# Restart Policy

Crashed services are restarted with backoff once FailureThreshold failures
accumulate (decaying at FailureDecay per second). Services that cannot
recover return suture.ErrDoNotRestart.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddModelService(services.NewAdvisorService(engine, services.AdvisorServiceConfig{}, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Call UnstoppedServiceReport after Serve returns to list services that did
not stop within ShutdownTimeout.
*/
package supervisor
