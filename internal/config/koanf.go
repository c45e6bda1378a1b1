// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/castadvisor/internal/adjust"
	"github.com/tomtom215/castadvisor/internal/classifier"
	"github.com/tomtom215/castadvisor/internal/dataset"
	"github.com/tomtom215/castadvisor/internal/process"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/castadvisor/config.yaml",
	"/etc/castadvisor/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	forest := classifier.DefaultForestConfig()
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
			MaxRequestBytes: 10 << 20, // 10MB
			MaxBatchRows:    10000,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Dataset: DatasetConfig{
			Path:        "mixed_data_set_with_quality.csv",
			LabelColumn: dataset.DefaultLabelColumn,
		},
		Model: ModelConfig{
			NumTrees:        forest.NumTrees,
			Seed:            forest.Seed,
			MaxDepth:        forest.MaxDepth,
			MinSamplesSplit: forest.MinSamplesSplit,
			MinSamplesLeaf:  forest.MinSamplesLeaf,
			MaxFeatures:     forest.MaxFeatures,
			Workers:         forest.Workers,
			FitTimeout:      5 * time.Minute,
		},
		Advisor: AdvisorConfig{
			BestLabel: string(process.DefaultBestLabel),
			Ranges:    rangesFrom(adjust.DefaultRanges()),
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
//
// Precedence is ENV > File > Defaults. The result is validated before it
// is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port
	// ADVISOR_RANGE_COOLING_TEMP_MAX -> advisor.ranges.cooling_temp.max
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while YAML lists arrive as slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Range bounds are generated per adjustable parameter:
// ADVISOR_RANGE_<PARAMETER>_MIN and ADVISOR_RANGE_<PARAMETER>_MAX.
var envMappings = buildEnvMappings()

func buildEnvMappings() map[string]string {
	m := map[string]string{
		// Server
		"http_port":         "server.port",
		"http_host":         "server.host",
		"http_timeout":      "server.timeout",
		"shutdown_timeout":  "server.shutdown_timeout",
		"environment":       "server.environment",
		"max_request_bytes": "server.max_request_bytes",
		"max_batch_rows":    "server.max_batch_rows",

		// Security
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Dataset
		"dataset_path":         "dataset.path",
		"dataset_label_column": "dataset.label_column",

		// Model training
		"model_num_trees":         "model.num_trees",
		"model_seed":              "model.seed",
		"model_max_depth":         "model.max_depth",
		"model_min_samples_split": "model.min_samples_split",
		"model_min_samples_leaf":  "model.min_samples_leaf",
		"model_max_features":      "model.max_features",
		"model_workers":           "model.workers",
		"model_fit_timeout":       "model.fit_timeout",

		// Advisor
		"advisor_best_label": "advisor.best_label",
	}
	for _, p := range process.Adjustable() {
		name := p.String()
		m["advisor_range_"+name+"_min"] = "advisor.ranges." + name + ".min"
		m["advisor_range_"+name+"_max"] = "advisor.ranges." + name + ".max"
	}
	return m
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - MODEL_NUM_TREES -> model.num_trees
//   - ADVISOR_BEST_LABEL -> advisor.best_label
//   - ADVISOR_RANGE_CASTING_SPEED_MIN -> advisor.ranges.casting_speed.min
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped variables are skipped so the process environment cannot
	// pollute the configuration.
	return ""
}
