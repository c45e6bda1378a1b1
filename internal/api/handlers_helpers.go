// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/castadvisor/internal/adjust"
	"github.com/tomtom215/castadvisor/internal/classifier"
	"github.com/tomtom215/castadvisor/internal/dataset"
	"github.com/tomtom215/castadvisor/internal/logging"
	"github.com/tomtom215/castadvisor/internal/middleware"
	"github.com/tomtom215/castadvisor/internal/models"
	"github.com/tomtom215/castadvisor/internal/process"
	"github.com/tomtom215/castadvisor/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers.
// Advisor results depend on the request body, so nothing is cacheable.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope with timing metadata.
func respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}, start time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			RequestID:   middleware.GetRequestID(r.Context()),
		},
	})
}

// respondError sends an error envelope. A non-nil err is logged with the
// request's logger; the client only sees apiErr.
func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.
			Str("code", apiErr.Code).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: models.StatusError,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(r.Context()),
		},
		Error: apiErr,
	})
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
// On failure it writes the error response and returns false.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, h.config.MaxRequestBytes)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err == nil && len(bytes.TrimSpace(data)) == 0 {
		err = ErrEmptyBody
	}
	if err != nil {
		status, apiErr := decodeError(err)
		respondError(w, r, status, apiErr, err)
		return false
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		status, apiErr := decodeError(err)
		respondError(w, r, status, apiErr, err)
		return false
	}
	if dec.More() {
		respondError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeBadRequest,
			Message: "Request body must contain a single JSON object",
		}, nil)
		return false
	}

	if apiErr := validateRequest(dst); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return false
	}
	return true
}

// decodeError maps a JSON decoding failure to a status and API error.
func decodeError(err error) (int, *models.APIError) {
	var typeErr *json.UnmarshalTypeError

	switch {
	case tooLarge(err):
		return http.StatusRequestEntityTooLarge, &models.APIError{
			Code:    models.ErrCodeBadRequest,
			Message: "Request body is too large",
		}
	case errors.Is(err, ErrEmptyBody), errors.Is(err, io.EOF):
		return http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeBadRequest,
			Message: ErrEmptyBody.Error(),
		}
	case errors.As(err, &typeErr):
		return http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeInvalidParameter,
			Message: fmt.Sprintf("%s must be a number", typeErr.Field),
			Details: map[string]interface{}{"field": typeErr.Field},
		}
	case strings.Contains(err.Error(), "unknown field"):
		return http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeInvalidParameter,
			Message: "Request contains an unknown parameter",
			Details: map[string]interface{}{"reason": err.Error()},
		}
	default:
		return http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeBadRequest,
			Message: "Request body is not valid JSON",
		}
	}
}

// tooLarge reports whether err came from an http.MaxBytesReader. Some readers
// flatten the error, so the message is checked as well.
func tooLarge(err error) bool {
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large")
}

// advisorError maps an error from the advisor to a status and API error.
func advisorError(err error) (int, *models.APIError) {
	var paramErr *adjust.ParameterError

	switch {
	case errors.As(err, &paramErr) && errors.Is(err, adjust.ErrDivisionByZero):
		return http.StatusUnprocessableEntity, &models.APIError{
			Code:    models.ErrCodeDivisionByZero,
			Message: paramErr.Error(),
			Details: map[string]interface{}{"parameter": paramErr.Parameter.String()},
		}
	case errors.Is(err, classifier.ErrNotFitted):
		return http.StatusServiceUnavailable, &models.APIError{
			Code:    models.ErrCodeModelNotReady,
			Message: "Quality model is not ready",
		}
	case errors.Is(err, process.ErrMissingParameter):
		return http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeMissingParameter,
			Message: err.Error(),
		}
	case errors.Is(err, process.ErrUnknownParameter), errors.Is(err, process.ErrNonFiniteParameter):
		return http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeInvalidParameter,
			Message: err.Error(),
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, &models.APIError{
			Code:    models.ErrCodeInternal,
			Message: "Request was cancelled",
		}
	default:
		return http.StatusInternalServerError, &models.APIError{
			Code:    models.ErrCodeInternal,
			Message: "Internal server error",
		}
	}
}

// respondAdvisorError writes the API error for a failed advisor call.
func respondAdvisorError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := advisorError(err)
	respondError(w, r, status, apiErr, err)
}

// batchError maps a batch upload read failure to a status and API error.
func batchError(err error, maxRows int) (int, *models.APIError) {
	switch {
	case tooLarge(err):
		return http.StatusRequestEntityTooLarge, &models.APIError{
			Code:    models.ErrCodeBadRequest,
			Message: "Upload is too large",
		}
	case errors.Is(err, dataset.ErrTooManyRows):
		return http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeBadRequest,
			Message: fmt.Sprintf("Upload exceeds %d rows", maxRows),
			Details: map[string]interface{}{"max_rows": maxRows},
		}
	case errors.Is(err, ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, &models.APIError{
			Code:    models.ErrCodeBadRequest,
			Message: "Upload must be multipart/form-data or text/csv",
		}
	default:
		return http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeBadRequest,
			Message: sanitizeLogValue(err.Error()),
		}
	}
}
