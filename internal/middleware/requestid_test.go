// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/castadvisor/internal/logging"
)

func TestRequestID_GeneratesNewID(t *testing.T) {
	t.Parallel()

	var capturedID, loggingID, correlationID string
	handler := func(w http.ResponseWriter, r *http.Request) {
		capturedID = GetRequestID(r.Context())
		loggingID = logging.RequestIDFromContext(r.Context())
		correlationID = logging.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", nil)
	rec := httptest.NewRecorder()
	RequestID(handler)(rec, req)

	responseID := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(responseID); err != nil {
		t.Errorf("Response X-Request-ID is not a valid UUID: %v", err)
	}
	if capturedID != responseID {
		t.Errorf("Context ID (%s) doesn't match response header ID (%s)", capturedID, responseID)
	}
	if loggingID != responseID {
		t.Errorf("logging request ID = %q, want %q", loggingID, responseID)
	}
	if len(correlationID) != 8 {
		t.Errorf("correlation ID = %q, want 8 characters", correlationID)
	}
}

func TestRequestID_UpstreamIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"proxy uuid", "0b7f5c9e-8f36-4c35-bd51-7b9a3f3f6a10", true},
		{"simple token", "edge_42.req-7", true},
		{"header injection", "abc\r\nX-Evil: 1", false},
		{"spaces", "two words", false},
		{"too long", strings.Repeat("a", maxRequestIDLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var captured string
			handler := func(w http.ResponseWriter, r *http.Request) {
				captured = GetRequestID(r.Context())
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/ranges", nil)
			req.Header.Set(RequestIDHeader, tt.incoming)
			rec := httptest.NewRecorder()
			RequestID(handler)(rec, req)

			if tt.keep && captured != tt.incoming {
				t.Errorf("ID = %q, want upstream %q", captured, tt.incoming)
			}
			if !tt.keep {
				if captured == tt.incoming {
					t.Errorf("invalid upstream ID %q was kept", tt.incoming)
				}
				if _, err := uuid.Parse(captured); err != nil {
					t.Errorf("replacement ID %q is not a UUID", captured)
				}
			}
			if rec.Header().Get(RequestIDHeader) != captured {
				t.Errorf("header = %q, context = %q", rec.Header().Get(RequestIDHeader), captured)
			}
		})
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	t.Parallel()

	if id := GetRequestID(context.Background()); id != "" {
		t.Errorf("GetRequestID() = %q, want empty", id)
	}
}
