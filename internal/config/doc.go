// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

/*
Package config provides centralized configuration management for Castadvisor.

Configuration is loaded with Koanf v2 in three layers, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml or /etc/castadvisor/config.yaml
 3. Environment variables listed in the env mapping table

# Configuration Structure

  - ServerConfig: listen address, timeouts, request size limits
  - SecurityConfig: rate limiting and CORS origins
  - LoggingConfig: level, format, caller annotation
  - DatasetConfig: historical runs CSV and its label column
  - ModelConfig: random forest training parameters
  - AdvisorConfig: best quality label and adjustable parameter ranges

# Example YAML

	server:
	  port: 8080
	dataset:
	  path: /data/mixed_data_set_with_quality.csv
	model:
	  num_trees: 20
	  seed: 0
	advisor:
	  best_label: high
	  ranges:
	    casting_speed:
	      min: 6
	      max: 12

# Environment Variables

	HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT, SHUTDOWN_TIMEOUT, ENVIRONMENT
	MAX_REQUEST_BYTES, MAX_BATCH_ROWS
	RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
	DATASET_PATH, DATASET_LABEL_COLUMN
	MODEL_NUM_TREES, MODEL_SEED, MODEL_MAX_DEPTH, MODEL_MIN_SAMPLES_SPLIT,
	MODEL_MIN_SAMPLES_LEAF, MODEL_MAX_FEATURES, MODEL_WORKERS, MODEL_FIT_TIMEOUT
	ADVISOR_BEST_LABEL
	ADVISOR_RANGE_<PARAMETER>_MIN, ADVISOR_RANGE_<PARAMETER>_MAX

Validation runs after loading. Range tables go through the same checks the
engine applies, so a configuration that loads is one the engine accepts.
*/
package config
