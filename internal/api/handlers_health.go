// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/castadvisor/internal/middleware"
	"github.com/tomtom215/castadvisor/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, whether or not the model is fitted.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data: models.HealthResponse{
			Status:    "alive",
			Ready:     h.advisor.Ready(),
			Version:   h.config.Version,
			UptimeSec: h.uptime(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(r.Context()),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only once the quality model is serving, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.advisor.Ready()

	status, httpStatus := "ready", http.StatusOK
	if !ready {
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	}

	respondJSON(w, httpStatus, &models.APIResponse{
		Status: models.StatusSuccess,
		Data: models.HealthResponse{
			Status:    status,
			Ready:     ready,
			Version:   h.config.Version,
			UptimeSec: h.uptime(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(r.Context()),
		},
	})
}

func (h *Handler) uptime() int64 {
	return int64(time.Since(h.startTime).Seconds())
}
