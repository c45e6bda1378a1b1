// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

/*
Package main is the entry point for the Castadvisor server.

Castadvisor predicts the quality class of a continuous casting run from its
eight process parameters and recommends bounded setpoint adjustments that
move a run toward the best quality class.

# Startup

	1. Configuration: Koanf v2 (defaults, config.yaml, environment)
	2. Logging: zerolog with the configured level and format
	3. Dataset: historical runs read from DATASET_PATH
	4. Model: scaler and random forest fitted once, before serving
	5. HTTP: chi router with rate limiting, CORS and Prometheus metrics
	6. Supervision: suture v4 tree owning the model and the HTTP server

	RootSupervisor ("castadvisor")
	├── ModelSupervisor ("model-layer")
	│   └── AdvisorService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A dataset that cannot be read or a model that cannot be fitted is fatal.

# Configuration

Common environment variables:

	HTTP_PORT             listen port
	DATASET_PATH          CSV of historical casting runs
	DATASET_LABEL_COLUMN  quality label column (default "quality")
	MODEL_NUM_TREES       forest size
	MODEL_SEED            forest seed
	LOG_LEVEL             trace, debug, info, warn, error
	CORS_ORIGINS          comma separated allowed origins

See internal/config for the full list.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for SHUTDOWN_TIMEOUT and the model is withdrawn.

# Example Usage

	export DATASET_PATH=/data/casting_runs.csv
	export LOG_FORMAT=console
	./castadvisor
*/
package main
