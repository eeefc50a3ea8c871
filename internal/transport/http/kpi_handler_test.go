package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/analytics"
	"salescli/internal/cleaner"
	"salescli/internal/config"
	apierrors "salescli/internal/errors"
	"salescli/internal/services"
)

// stubService serves canned pipeline results.
type stubService struct {
	result *services.PipelineResult
	err    error
}

func (s *stubService) Run(ctx context.Context, paths []string) (*services.PipelineResult, error) {
	return s.result, s.err
}

func (s *stubService) Latest(ctx context.Context) (*services.PipelineResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubService) Bundle(ctx context.Context) (*analytics.Bundle, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result.Bundle, nil
}

func (s *stubService) Report(ctx context.Context) (*cleaner.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result.Report, nil
}

func testBundle() *analytics.Bundle {
	return &analytics.Bundle{
		TotalRevenue: 300,
		TopProducts: []analytics.ProductRevenue{
			{Product: "Widget", Revenue: 200},
			{Product: "Gadget", Revenue: 100},
		},
		Regions: []analytics.RegionRevenue{
			{Region: "North", Revenue: 300, Percent: 100},
		},
		Summary:     analytics.SummaryStats{Transactions: 3, TotalRevenue: 300},
		GeneratedAt: time.Now().UTC(),
	}
}

func testRouter(service SalesServiceInterface) http.Handler {
	return NewRouter(RouterDeps{
		Service: service,
		Config:  config.Default(),
		Logger:  slog.Default(),
		Version: "test",
	})
}

func TestGetBundle(t *testing.T) {
	router := testRouter(&stubService{result: &services.PipelineResult{Bundle: testBundle()}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/kpi", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var bundle analytics.Bundle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bundle))
	assert.InDelta(t, 300.0, bundle.TotalRevenue, 1e-9)
	assert.Len(t, bundle.TopProducts, 2)
}

func TestGetTopProductsWithLimit(t *testing.T) {
	router := testRouter(&stubService{result: &services.PipelineResult{Bundle: testBundle()}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/kpi/top-products?n=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var top []analytics.ProductRevenue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))
	require.Len(t, top, 1)
	assert.Equal(t, "Widget", top[0].Product)
}

func TestGetTopProductsRejectsBadLimit(t *testing.T) {
	router := testRouter(&stubService{result: &services.PipelineResult{Bundle: testBundle()}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/kpi/top-products?n=0", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid-argument")
}

func TestGetProfitWithoutCostColumn(t *testing.T) {
	router := testRouter(&stubService{result: &services.PipelineResult{Bundle: testBundle()}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/kpi/profit", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNoRunYetAnswers404(t *testing.T) {
	router := testRouter(&stubService{err: apierrors.NewNotFoundError("pipeline result")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/kpi", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not-found")
}

func TestRunPipelineValidation(t *testing.T) {
	router := testRouter(&stubService{result: &services.PipelineResult{Bundle: testBundle(), Report: cleaner.NewReport()}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/pipeline/run", strings.NewReader(`{"paths":[]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunPipeline(t *testing.T) {
	router := testRouter(&stubService{result: &services.PipelineResult{Bundle: testBundle(), Report: cleaner.NewReport()}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/pipeline/run", strings.NewReader(`{"paths":["data/sales.csv"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := testRouter(&stubService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "test", health.Version)
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(&stubService{result: &services.PipelineResult{Bundle: testBundle()}})

	// Generate one request so counters exist.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/kpi", nil))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRequestIDHeader(t *testing.T) {
	router := testRouter(&stubService{result: &services.PipelineResult{Bundle: testBundle()}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/kpi", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/kpi", nil)
	req.Header.Set("X-Request-ID", "test-id-123")
	router.ServeHTTP(rec, req)
	assert.Equal(t, "test-id-123", rec.Header().Get("X-Request-ID"))
}
