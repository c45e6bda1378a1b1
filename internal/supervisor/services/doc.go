// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

/*
Package services provides suture.Service wrappers for Castadvisor components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the blocking ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Advisor (AdvisorService):
  - Owns the lifetime of an already fitted advisor.Engine
  - Shuts the engine down when the tree stops
  - Stops for good (suture.ErrDoNotRestart) if the model is not serving

# Usage Example

	tree, _ := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.AddModelService(services.NewAdvisorService(engine, services.AdvisorServiceConfig{}, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	err := tree.Serve(ctx)

# Error Handling

Return values determine supervisor behavior:

	ctx.Err()              shutdown requested, normal termination
	suture.ErrDoNotRestart the service cannot recover; it is not restarted
	any other error        the service crashed and is restarted
*/
package services
