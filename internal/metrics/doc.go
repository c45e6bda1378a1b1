// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests

Advisor:
  - advisor_classifications_total{quality}
  - advisor_suggestions_total{parameter}
  - advisor_inference_duration_seconds{operation}
  - advisor_errors_total{operation, kind}

Model:
  - model_fit_duration_seconds
  - model_training_rows
  - model_trees
  - model_classes
  - model_ready

# Usage

	start := time.Now()
	label, err := model.Predict(x)
	if err != nil {
	    metrics.RecordAdvisorError("classify", err)
	    return err
	}
	metrics.RecordClassification(label, time.Since(start))
*/
package metrics
