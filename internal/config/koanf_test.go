// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/castadvisor/internal/adjust"
	"github.com/tomtom215/castadvisor/internal/process"
)

// isolateEnv points CONFIG_PATH at nothing and moves into an empty
// directory so no stray config.yaml is picked up.
func isolateEnv(t *testing.T) string {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, "")
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	return path
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Dataset.Path != "mixed_data_set_with_quality.csv" {
		t.Errorf("Dataset.Path = %q", cfg.Dataset.Path)
	}
	if cfg.Dataset.LabelColumn != "quality" {
		t.Errorf("Dataset.LabelColumn = %q, want quality", cfg.Dataset.LabelColumn)
	}
	if cfg.Model.NumTrees != 20 || cfg.Model.Seed != 0 {
		t.Errorf("Model = %+v, want 20 trees with seed 0", cfg.Model)
	}
	if cfg.Advisor.BestLabel != "high" {
		t.Errorf("Advisor.BestLabel = %q, want high", cfg.Advisor.BestLabel)
	}
	if cfg.Advisor.Ranges.CoolingTemp != (RangeConfig{Min: 20, Max: 35}) {
		t.Errorf("CoolingTemp range = %+v", cfg.Advisor.Ranges.CoolingTemp)
	}
	if cfg.Advisor.Ranges.EntryTemp != (RangeConfig{Min: 400, Max: 500}) {
		t.Errorf("EntryTemp range = %+v", cfg.Advisor.Ranges.EntryTemp)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default configuration must validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"DATASET_PATH", "dataset.path"},
		{"MODEL_NUM_TREES", "model.num_trees"},
		{"MODEL_FIT_TIMEOUT", "model.fit_timeout"},
		{"ADVISOR_BEST_LABEL", "advisor.best_label"},
		{"ADVISOR_RANGE_COOLING_TEMP_MIN", "advisor.ranges.cooling_temp.min"},
		{"ADVISOR_RANGE_EMULSION_CONCENTRATION_MAX", "advisor.ranges.emulsion_concentration.max"},
		{"ADVISOR_RANGE_CASTING_TEMPERATURE_MIN", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestEnvMappingsCoverAdjustableParameters(t *testing.T) {
	t.Parallel()

	for _, p := range process.Adjustable() {
		for _, bound := range []string{"min", "max"} {
			key := "advisor_range_" + p.String() + "_" + bound
			if _, ok := envMappings[key]; !ok {
				t.Errorf("missing env mapping %s", strings.ToUpper(key))
			}
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolateEnv(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty string", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: {}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml", got)
	}

	custom := writeConfig(t, dir, "server: {}")
	t.Setenv(ConfigPathEnvVar, custom)
	if got := findConfigFile(); got != custom {
		t.Errorf("findConfigFile() = %q, want %q", got, custom)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("missing CONFIG_PATH should fall back to defaults, got %q", got)
	}
}

func TestLoadWithKoanfDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Server.Timeout = %v, want 30s", cfg.Server.Timeout)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}

	ac := cfg.ToAdvisorConfig()
	want := adjust.DefaultRanges()
	for p, r := range want {
		if ac.Ranges[p] != r {
			t.Errorf("range %s = %+v, want %+v", p, ac.Ranges[p], r)
		}
	}
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolateEnv(t)

	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MODEL_NUM_TREES", "50")
	t.Setenv("MODEL_SEED", "7")
	t.Setenv("MODEL_FIT_TIMEOUT", "90s")
	t.Setenv("ADVISOR_BEST_LABEL", "premium")
	t.Setenv("ADVISOR_RANGE_CASTING_SPEED_MAX", "14.5")
	t.Setenv("CORS_ORIGINS", "https://plant.example, https://ops.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Model.NumTrees != 50 || cfg.Model.Seed != 7 {
		t.Errorf("Model = %+v", cfg.Model)
	}
	if cfg.Model.FitTimeout != 90*time.Second {
		t.Errorf("Model.FitTimeout = %v, want 90s", cfg.Model.FitTimeout)
	}
	if cfg.Advisor.BestLabel != "premium" {
		t.Errorf("Advisor.BestLabel = %q", cfg.Advisor.BestLabel)
	}
	if cfg.Advisor.Ranges.CastingSpeed != (RangeConfig{Min: 6, Max: 14.5}) {
		t.Errorf("CastingSpeed range = %+v", cfg.Advisor.Ranges.CastingSpeed)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://ops.example" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}

	// Unset values keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := isolateEnv(t)

	path := writeConfig(t, dir, `
server:
  port: 8888
  host: "127.0.0.1"
logging:
  level: warn
dataset:
  path: /data/runs.csv
  label_column: grade
security:
  cors_origins:
    - https://plant.example
advisor:
  ranges:
    quench_pressure:
      min: 0.5
      max: 2.5
`)
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8888 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Dataset.Path != "/data/runs.csv" || cfg.Dataset.LabelColumn != "grade" {
		t.Errorf("Dataset = %+v", cfg.Dataset)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "https://plant.example" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Advisor.Ranges.QuenchPressure != (RangeConfig{Min: 0.5, Max: 2.5}) {
		t.Errorf("QuenchPressure range = %+v", cfg.Advisor.Ranges.QuenchPressure)
	}
	// Sibling ranges keep their defaults.
	if cfg.Advisor.Ranges.EmulsionTemp != (RangeConfig{Min: 40, Max: 60}) {
		t.Errorf("EmulsionTemp range = %+v", cfg.Advisor.Ranges.EmulsionTemp)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	dir := isolateEnv(t)

	path := writeConfig(t, dir, `
server:
  port: 8888
model:
  num_trees: 10
`)
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7777")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777 (env wins)", cfg.Server.Port)
	}
	if cfg.Model.NumTrees != 10 {
		t.Errorf("Model.NumTrees = %d, want 10 (from file)", cfg.Model.NumTrees)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "invalid port",
			env:     map[string]string{"HTTP_PORT": "70000"},
			wantErr: "HTTP_PORT",
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"LOG_LEVEL": "verbose"},
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "zero trees",
			env:     map[string]string{"MODEL_NUM_TREES": "0"},
			wantErr: "num_trees",
		},
		{
			name: "inverted range",
			env: map[string]string{
				"ADVISOR_RANGE_COOLING_TEMP_MIN": "40",
				"ADVISOR_RANGE_COOLING_TEMP_MAX": "30",
			},
			wantErr: "ranges",
		},
		{
			name:    "rate limit out of bounds",
			env:     map[string]string{"RATE_LIMIT_REQUESTS": "0"},
			wantErr: "RATE_LIMIT_REQUESTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatalf("LoadWithKoanf() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
