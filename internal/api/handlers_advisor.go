// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/castadvisor/internal/classifier"
	"github.com/tomtom215/castadvisor/internal/dataset"
	"github.com/tomtom215/castadvisor/internal/logging"
	"github.com/tomtom215/castadvisor/internal/models"
	"github.com/tomtom215/castadvisor/internal/process"
)

// uploadFormField is the multipart field carrying a batch CSV.
const uploadFormField = "file"

// Classify handles POST /api/v1/classify.
// The body holds the eight process parameters; the response names the
// predicted quality and whether it is the best class.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RunParameters
	if !h.decodeJSON(w, r, &req) {
		return
	}
	ps, err := req.ToParameterSet()
	if err != nil {
		respondAdvisorError(w, r, err)
		return
	}

	label, err := h.advisor.Classify(r.Context(), ps)
	if err != nil {
		respondAdvisorError(w, r, err)
		return
	}

	respondSuccess(w, r, models.ClassificationResponse{
		Quality: label,
		Best:    label == h.advisor.BestLabel(),
	}, start)
}

// Recommend handles POST /api/v1/recommend.
// The caller supplies the quality label, so no fitted model is needed.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RecommendRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	ps, err := req.Parameters.ToParameterSet()
	if err != nil {
		respondAdvisorError(w, r, err)
		return
	}
	label := process.Label(strings.TrimSpace(req.Quality))

	suggestions, err := h.advisor.Recommend(r.Context(), ps, label)
	if err != nil {
		respondAdvisorError(w, r, err)
		return
	}

	respondSuccess(w, r, models.RecommendationResponse{
		Quality:     label,
		Suggestions: suggestions,
	}, start)
}

// Assess handles POST /api/v1/assess: classify, then recommend for the
// predicted quality.
func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RunParameters
	if !h.decodeJSON(w, r, &req) {
		return
	}
	ps, err := req.ToParameterSet()
	if err != nil {
		respondAdvisorError(w, r, err)
		return
	}

	assessment, err := h.advisor.Assess(r.Context(), ps)
	if err != nil {
		respondAdvisorError(w, r, err)
		return
	}
	respondSuccess(w, r, assessment, start)
}

// AssessBatch handles POST /api/v1/assess/batch.
//
// The upload is a CSV with the eight parameter columns, sent either as the
// multipart field "file" or as a raw text/csv body. Rows are assessed
// independently: a row whose recommendation fails carries its own error
// while the rest of the batch is still returned. A malformed file or one
// with too many rows fails the whole request.
func (h *Handler) AssessBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	if !h.advisor.Ready() {
		respondAdvisorError(w, r, fmt.Errorf("assess batch: %w", classifier.ErrNotFitted))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxRequestBytes)
	src, closeUpload, err := h.openUpload(r)
	if err != nil {
		status, apiErr := batchError(err, h.config.MaxBatchRows)
		respondError(w, r, status, apiErr, err)
		return
	}
	defer closeUpload()

	sets, err := dataset.ReadParameterSetsLimit(src, h.config.MaxBatchRows)
	if err != nil {
		status, apiErr := batchError(err, h.config.MaxBatchRows)
		respondError(w, r, status, apiErr, err)
		return
	}

	resp := models.BatchAssessmentResponse{
		Total:   len(sets),
		Results: make([]models.BatchRowResult, 0, len(sets)),
	}
	for i, ps := range sets {
		row := models.BatchRowResult{Row: i + 1}

		assessment, err := h.advisor.Assess(ctx, ps)
		switch {
		case err == nil:
			row.Assessment = assessment
			resp.Succeeded++
		case abortsBatch(err):
			respondAdvisorError(w, r, fmt.Errorf("row %d: %w", i+1, err))
			return
		default:
			_, row.Error = advisorError(err)
			resp.Failed++
		}
		resp.Results = append(resp.Results, row)
	}

	logging.Ctx(ctx).Info().
		Int("rows", resp.Total).
		Int("failed", resp.Failed).
		Dur("duration", time.Since(start)).
		Msg("batch assessed")

	respondSuccess(w, r, resp, start)
}

// abortsBatch reports errors that would fail every remaining row too.
func abortsBatch(err error) bool {
	return errors.Is(err, classifier.ErrNotFitted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// openUpload returns the CSV stream of a batch request and a cleanup func.
func (h *Handler) openUpload(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, r.Header.Get("Content-Type"))
	}

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.config.MaxRequestBytes); err != nil {
			return nil, nil, fmt.Errorf("parse upload: %w", err)
		}
		file, _, err := r.FormFile(uploadFormField)
		if err != nil {
			_ = r.MultipartForm.RemoveAll()
			if errors.Is(err, http.ErrMissingFile) {
				return nil, nil, ErrMissingUpload
			}
			return nil, nil, fmt.Errorf("open upload: %w", err)
		}
		return file, func() {
			_ = file.Close()
			_ = r.MultipartForm.RemoveAll()
		}, nil

	case "text/csv", "application/csv", "text/plain":
		return r.Body, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
}

// Model handles GET /api/v1/model and reports the engine status.
func (h *Handler) Model(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, h.advisor.Status(), time.Now())
}

// Ranges handles GET /api/v1/ranges and lists the bounds every
// suggestion is clamped to.
func (h *Handler) Ranges(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, models.NewRangesResponse(h.advisor.BestLabel(), h.advisor.Ranges()), time.Now())
}
