// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/castadvisor/internal/adjust"
	"github.com/tomtom215/castadvisor/internal/classifier"
	"github.com/tomtom215/castadvisor/internal/process"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Advisor Metrics
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_classifications_total",
			Help: "Total number of quality classifications by predicted label",
		},
		[]string{"quality"},
	)

	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_inference_duration_seconds",
			Help:    "Duration of advisor operations in seconds",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		},
		[]string{"operation"}, // "classify", "recommend", "assess"
	)

	SuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_suggestions_total",
			Help: "Total number of parameter suggestions issued",
		},
		[]string{"parameter"},
	)

	AdvisorErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_errors_total",
			Help: "Total number of failed advisor operations by kind",
		},
		[]string{"operation", "kind"},
	)

	// Model Metrics
	ModelFitDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_fit_duration_seconds",
			Help: "Time spent fitting the quality model at startup",
		},
	)

	ModelTrainingRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_training_rows",
			Help: "Number of historical rows the model was fitted on",
		},
	)

	ModelTrees = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_trees",
			Help: "Number of trees in the fitted forest",
		},
	)

	ModelClasses = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_classes",
			Help: "Number of quality classes known to the model",
		},
	)

	ModelReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_ready",
			Help: "1 when the quality model is fitted and serving, 0 otherwise",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordClassification records one classification outcome.
func RecordClassification(quality string, duration time.Duration) {
	ClassificationsTotal.WithLabelValues(quality).Inc()
	InferenceDuration.WithLabelValues("classify").Observe(duration.Seconds())
}

// RecordRecommendation records the suggestions produced by one recommend call.
func RecordRecommendation(suggestions process.Suggestions, duration time.Duration) {
	for p := range suggestions {
		SuggestionsTotal.WithLabelValues(string(p)).Inc()
	}
	InferenceDuration.WithLabelValues("recommend").Observe(duration.Seconds())
}

// RecordAssessment records the end-to-end latency of an assess call.
func RecordAssessment(duration time.Duration) {
	InferenceDuration.WithLabelValues("assess").Observe(duration.Seconds())
}

// RecordAdvisorError categorizes and counts a failed advisor operation.
func RecordAdvisorError(operation string, err error) {
	if err == nil {
		return
	}
	AdvisorErrors.WithLabelValues(operation, ErrorKind(err)).Inc()
}

// ErrorKind maps an advisor error to a low-cardinality label value.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, classifier.ErrNotFitted):
		return "not_fitted"
	case errors.Is(err, adjust.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, process.ErrMissingParameter):
		return "missing_parameter"
	case errors.Is(err, process.ErrNonFiniteParameter), errors.Is(err, process.ErrUnknownParameter):
		return "invalid_parameter"
	case errors.Is(err, classifier.ErrDimensionMismatch):
		return "dimension_mismatch"
	default:
		return "other"
	}
}

// RecordModelFit publishes the fitted model's shape.
func RecordModelFit(duration time.Duration, rows, trees, classes int) {
	ModelFitDuration.Set(duration.Seconds())
	ModelTrainingRows.Set(float64(rows))
	ModelTrees.Set(float64(trees))
	ModelClasses.Set(float64(classes))
	ModelReady.Set(1)
}

// RecordModelUnloaded marks the model as no longer serving.
func RecordModelUnloaded() {
	ModelReady.Set(0)
}
