// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package api

import "errors"

// Request errors raised before the advisor is consulted.
var (
	// ErrEmptyBody indicates a POST without a body.
	ErrEmptyBody = errors.New("request body is empty")

	// ErrUnsupportedMediaType indicates a batch upload that is neither multipart nor CSV.
	ErrUnsupportedMediaType = errors.New("unsupported content type")

	// ErrMissingUpload indicates a multipart form without the "file" field.
	ErrMissingUpload = errors.New("multipart form has no file field")
)
