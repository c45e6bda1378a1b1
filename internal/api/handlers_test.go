// Castadvisor - Continuous Casting Quality Advisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/castadvisor

package api

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/castadvisor/internal/adjust"
	"github.com/tomtom215/castadvisor/internal/advisor"
	"github.com/tomtom215/castadvisor/internal/classifier"
	"github.com/tomtom215/castadvisor/internal/dataset"
	"github.com/tomtom215/castadvisor/internal/models"
	"github.com/tomtom215/castadvisor/internal/process"
)

const referenceBody = `{"casting_temperature":700,"cooling_temp":25,"casting_speed":10,"entry_temp":450,` +
	`"emulsion_temp":50,"emulsion_pressure":2,"emulsion_concentration":3,"quench_pressure":1.5}`

// envelope mirrors models.APIResponse with data left undecoded.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

// fakeAdvisor returns canned results so handlers can be tested in isolation.
type fakeAdvisor struct {
	label       process.Label
	ready       bool
	err         error
	suggestions process.Suggestions
	panicMsg    string
}

func (f *fakeAdvisor) Classify(context.Context, process.ParameterSet) (process.Label, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.label, f.err
}

func (f *fakeAdvisor) Recommend(_ context.Context, _ process.ParameterSet, label process.Label) (process.Suggestions, error) {
	if f.err != nil {
		return nil, f.err
	}
	if label == process.DefaultBestLabel {
		return process.Suggestions{}, nil
	}
	return f.suggestions, nil
}

func (f *fakeAdvisor) Assess(ctx context.Context, ps process.ParameterSet) (*process.Assessment, error) {
	label, err := f.Classify(ctx, ps)
	if err != nil {
		return nil, err
	}
	s, err := f.Recommend(ctx, ps, label)
	if err != nil {
		return nil, err
	}
	return &process.Assessment{Quality: label, Best: label == process.DefaultBestLabel, Suggestions: s}, nil
}

func (f *fakeAdvisor) Status() advisor.Status {
	return advisor.Status{Ready: f.ready, BestLabel: process.DefaultBestLabel}
}

func (f *fakeAdvisor) Ranges() map[process.Parameter]adjust.Range {
	return adjust.DefaultRanges()
}

func (f *fakeAdvisor) BestLabel() process.Label { return process.DefaultBestLabel }

func (f *fakeAdvisor) Ready() bool { return f.ready }

// syntheticDataset draws rows around plausible plant settings labeled
// "low" and "medium" in rotation, so no run is ever classified as best.
func syntheticDataset(n int) *dataset.Dataset {
	rng := rand.New(rand.NewSource(1))
	centers := []float64{700, 27, 9, 450, 50, 2, 3.5, 1.5}
	labels := []string{"low", "medium"}
	ds := &dataset.Dataset{}
	for i := 0; i < n; i++ {
		row := make([]float64, len(centers))
		for j, c := range centers {
			row[j] = c * (0.9 + 0.2*rng.Float64())
		}
		ds.Features = append(ds.Features, row)
		ds.Labels = append(ds.Labels, labels[i%len(labels)])
	}
	return ds
}

// newEngine returns an engine, fitted when fit is true.
func newEngine(t *testing.T, fit bool) *advisor.Engine {
	t.Helper()
	e, err := advisor.NewEngine(advisor.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if fit {
		if err := e.Init(context.Background(), syntheticDataset(80)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
	}
	return e
}

// newTestServer builds the full router around adv with rate limiting off.
func newTestServer(adv Advisor, cfg HandlerConfig) http.Handler {
	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		RateLimitDisabled:  true,
	})
	return NewRouter(NewHandler(adv, cfg), mw).SetupChi()
}

func do(t *testing.T, h http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v: %s", err, rec.Body.String())
	}
	return env
}

func TestClassify(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeAdvisor{label: "low", ready: true}, HandlerConfig{})
	rec := do(t, srv, http.MethodPost, "/api/v1/classify", "application/json", referenceBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Status != models.StatusSuccess {
		t.Errorf("status = %q", env.Status)
	}
	var got models.ClassificationResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.Quality != "low" || got.Best {
		t.Errorf("data = %+v, want low/not best", got)
	}
	if env.Metadata.RequestID == "" || env.Metadata.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("request id %q does not match header %q", env.Metadata.RequestID, rec.Header().Get("X-Request-ID"))
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}
}

func TestClassify_BestLabel(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeAdvisor{label: "high", ready: true}, HandlerConfig{})
	rec := do(t, srv, http.MethodPost, "/api/v1/classify", "application/json", referenceBody)

	var got models.ClassificationResponse
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !got.Best {
		t.Errorf("high should be reported as best: %+v", got)
	}
}

func TestClassify_RequestErrors(t *testing.T) {
	t.Parallel()

	missing := strings.Replace(referenceBody, `"entry_temp":450,`, "", 1)
	null := strings.Replace(referenceBody, `"entry_temp":450`, `"entry_temp":null`, 1)
	unknown := strings.Replace(referenceBody, `{`, `{"ladle_weight":12,`, 1)
	text := strings.Replace(referenceBody, `"casting_speed":10`, `"casting_speed":"fast"`, 1)

	tests := []struct {
		name       string
		adv        *fakeAdvisor
		body       string
		wantStatus int
		wantCode   string
	}{
		{"missing parameter", &fakeAdvisor{ready: true}, missing, http.StatusBadRequest, models.ErrCodeMissingParameter},
		{"null parameter", &fakeAdvisor{ready: true}, null, http.StatusBadRequest, models.ErrCodeMissingParameter},
		{"empty object", &fakeAdvisor{ready: true}, `{}`, http.StatusBadRequest, models.ErrCodeMissingParameter},
		{"unknown parameter", &fakeAdvisor{ready: true}, unknown, http.StatusBadRequest, models.ErrCodeInvalidParameter},
		{"malformed json", &fakeAdvisor{ready: true}, `{"casting_temperature":`, http.StatusBadRequest, ""},
		{"non-numeric value", &fakeAdvisor{ready: true}, text, http.StatusBadRequest, ""},
		{"empty body", &fakeAdvisor{ready: true}, ``, http.StatusBadRequest, models.ErrCodeBadRequest},
		{"two objects", &fakeAdvisor{ready: true}, referenceBody + referenceBody, http.StatusBadRequest, models.ErrCodeBadRequest},
		{
			"model not fitted",
			&fakeAdvisor{err: fmt.Errorf("classify: %w", classifier.ErrNotFitted)},
			referenceBody, http.StatusServiceUnavailable, models.ErrCodeModelNotReady,
		},
		{
			"unexpected failure",
			&fakeAdvisor{err: fmt.Errorf("disk on fire")},
			referenceBody, http.StatusInternalServerError, models.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := do(t, newTestServer(tt.adv, HandlerConfig{}), http.MethodPost, "/api/v1/classify", "application/json", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if env.Status != models.StatusError || env.Error == nil {
				t.Fatalf("expected error envelope: %s", rec.Body.String())
			}
			if tt.wantCode != "" && env.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Error.Code, tt.wantCode)
			}
			if strings.Contains(rec.Body.String(), "disk on fire") {
				t.Error("internal error text leaked to the client")
			}
		})
	}
}

func TestClassify_NamesMissingParameter(t *testing.T) {
	t.Parallel()

	body := strings.Replace(referenceBody, `"quench_pressure":1.5`, `"quench_pressure":null`, 1)
	rec := do(t, newTestServer(&fakeAdvisor{ready: true}, HandlerConfig{}), http.MethodPost, "/api/v1/classify", "application/json", body)

	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Details["field"] != "quench_pressure" {
		t.Errorf("details = %+v, want field quench_pressure", env.Error)
	}
}

func TestClassify_BodyTooLarge(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeAdvisor{ready: true}, HandlerConfig{MaxRequestBytes: 64})
	rec := do(t, srv, http.MethodPost, "/api/v1/classify", "application/json", referenceBody)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413: %s", rec.Code, rec.Body.String())
	}
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	// Recommend does not need a fitted model.
	srv := newTestServer(newEngine(t, false), HandlerConfig{})

	body := `{"quality":"low","parameters":` + referenceBody + `}`
	rec := do(t, srv, http.MethodPost, "/api/v1/recommend", "application/json", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var got struct {
		Quality     string                        `json:"quality"`
		Suggestions map[string]process.Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	want := map[string]process.Suggestion{
		"cooling_temp":           {OptimalValue: 35, PercentageChange: 40},
		"casting_speed":          {OptimalValue: 12, PercentageChange: 20},
		"entry_temp":             {OptimalValue: 450, PercentageChange: 0},
		"emulsion_temp":          {OptimalValue: 50, PercentageChange: 0},
		"emulsion_pressure":      {OptimalValue: 2, PercentageChange: 0},
		"emulsion_concentration": {OptimalValue: 3, PercentageChange: 0},
		"quench_pressure":        {OptimalValue: 1.5, PercentageChange: 0},
	}
	if len(got.Suggestions) != len(want) {
		t.Fatalf("suggestions = %v", got.Suggestions)
	}
	for p, w := range want {
		g := got.Suggestions[p]
		if diff := g.OptimalValue - w.OptimalValue; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s optimal = %v, want %v", p, g.OptimalValue, w.OptimalValue)
		}
		if diff := g.PercentageChange - w.PercentageChange; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s change = %v, want %v", p, g.PercentageChange, w.PercentageChange)
		}
	}
	if _, ok := got.Suggestions["casting_temperature"]; ok {
		t.Error("casting_temperature must never be suggested")
	}
}

func TestRecommend_BestQuality(t *testing.T) {
	t.Parallel()

	srv := newTestServer(newEngine(t, false), HandlerConfig{})
	body := `{"quality":"high","parameters":` + referenceBody + `}`
	rec := do(t, srv, http.MethodPost, "/api/v1/recommend", "application/json", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(string(decodeEnvelope(t, rec).Data), `"suggestions":{}`) {
		t.Errorf("best quality should return no suggestions: %s", rec.Body.String())
	}
}

func TestRecommend_Errors(t *testing.T) {
	t.Parallel()

	zeroCooling := strings.Replace(referenceBody, `"cooling_temp":25`, `"cooling_temp":0`, 1)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"zero current value", `{"quality":"low","parameters":` + zeroCooling + `}`, http.StatusUnprocessableEntity, models.ErrCodeDivisionByZero},
		{"missing quality", `{"parameters":` + referenceBody + `}`, http.StatusBadRequest, models.ErrCodeMissingParameter},
		{"missing parameters", `{"quality":"low"}`, http.StatusBadRequest, models.ErrCodeMissingParameter},
		{"unknown field", `{"quality":"low","speed":1,"parameters":` + referenceBody + `}`, http.StatusBadRequest, models.ErrCodeInvalidParameter},
	}

	srv := newTestServer(newEngine(t, false), HandlerConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := do(t, srv, http.MethodPost, "/api/v1/recommend", "application/json", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestRecommend_DivisionByZeroNamesParameter(t *testing.T) {
	t.Parallel()

	srv := newTestServer(newEngine(t, false), HandlerConfig{})
	body := `{"quality":"low","parameters":` + strings.Replace(referenceBody, `"entry_temp":450`, `"entry_temp":0`, 1) + `}`
	rec := do(t, srv, http.MethodPost, "/api/v1/recommend", "application/json", body)

	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Details["parameter"] != "entry_temp" {
		t.Errorf("error = %+v, want parameter entry_temp", env.Error)
	}
}

func TestAssess(t *testing.T) {
	t.Parallel()

	srv := newTestServer(newEngine(t, true), HandlerConfig{})
	rec := do(t, srv, http.MethodPost, "/api/v1/assess", "application/json", referenceBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var got process.Assessment
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.Quality != "low" && got.Quality != "medium" {
		t.Errorf("quality = %q, want a trained label", got.Quality)
	}
	if got.Best {
		t.Error("no training row is best, so the run cannot be best")
	}
	if len(got.Suggestions) != len(process.Adjustable()) {
		t.Errorf("len(suggestions) = %d, want %d", len(got.Suggestions), len(process.Adjustable()))
	}
}

func TestAssess_NotFitted(t *testing.T) {
	t.Parallel()

	srv := newTestServer(newEngine(t, false), HandlerConfig{})
	rec := do(t, srv, http.MethodPost, "/api/v1/assess", "application/json", referenceBody)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != models.ErrCodeModelNotReady {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestModelAndRanges(t *testing.T) {
	t.Parallel()

	srv := newTestServer(newEngine(t, true), HandlerConfig{})

	rec := do(t, srv, http.MethodGet, "/api/v1/model", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("model status = %d", rec.Code)
	}
	var status advisor.Status
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.Ready || status.Model == nil || status.Model.NumTrees != 20 {
		t.Errorf("status = %+v", status)
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/ranges", "", "")
	var ranges models.RangesResponse
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &ranges); err != nil {
		t.Fatalf("decode ranges: %v", err)
	}
	if ranges.BestLabel != "high" {
		t.Errorf("best_label = %q", ranges.BestLabel)
	}
	if r := ranges.Ranges[process.CoolingTemp]; r.Min != 20 || r.Max != 35 {
		t.Errorf("cooling_temp range = %+v", r)
	}
	if _, ok := ranges.Ranges[process.CastingTemperature]; ok {
		t.Error("casting_temperature has no range")
	}
}
