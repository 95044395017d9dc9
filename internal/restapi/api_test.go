package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttransit.seoullab.org/internal/app"
	"smarttransit.seoullab.org/internal/appconf"
	"smarttransit.seoullab.org/internal/clock"
	"smarttransit.seoullab.org/internal/congestion"
	"smarttransit.seoullab.org/internal/logging"
	"smarttransit.seoullab.org/internal/metrics"
	"smarttransit.seoullab.org/internal/seoulmetro"
	"smarttransit.seoullab.org/internal/stationdb"
)

// stubRand pins the random source so jitter terms collapse to zero and
// handler outputs become exact.
type stubRand struct{ v float64 }

func (s stubRand) Float64() float64 { return s.v }

// weekdayMorning is 08:00 on a Monday, peak commute hour.
var weekdayMorning = time.Date(2024, 6, 17, 8, 0, 0, 0, time.UTC)

type envelope struct {
	Status  string         `json:"status"`
	Data    map[string]any `json:"data"`
	Message string         `json:"message"`
}

func createTestApi(t *testing.T, cfg appconf.Config) (*RestAPI, http.Handler) {
	t.Helper()

	stations, err := stationdb.NewClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stations.Close() })

	mockClock := clock.NewMockClock(weekdayMorning)
	r := stubRand{v: 0.5}
	generator := congestion.NewGenerator(mockClock, r)
	logger := logging.NewLogger(false)

	// An unroutable upstream makes every live lookup fail fast, so
	// use_real_api requests exercise the fallback path.
	metro := seoulmetro.NewClient(seoulmetro.Config{
		APIKey:   "test-key",
		BaseURL:  "http://127.0.0.1:1",
		CacheTTL: 30 * time.Second,
		Timeout:  250 * time.Millisecond,
	}, generator, r, mockClock, logger, nil)

	application := &app.Application{
		Config:    cfg,
		Logger:    logger,
		Stations:  stations,
		Generator: generator,
		Metro:     metro,
		Clock:     mockClock,
		Metrics:   metrics.NewWithLogger(logger),
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)

	mux := http.NewServeMux()
	api.SetupRoutes(mux)
	return api, api.Middleware(mux)
}

func defaultTestConfig() appconf.Config {
	return appconf.Config{
		Env:       appconf.Test,
		RateLimit: -1, // unlimited
	}
}

func serveRequest(t *testing.T, handler http.Handler, method, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	var body envelope
	if resp.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	}
	return resp, body
}

func TestHealthEndpoint(t *testing.T) {
	_, handler := createTestApi(t, defaultTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
}

func TestWrongMethodIsRejected(t *testing.T) {
	_, handler := createTestApi(t, defaultTestConfig())

	resp, _ := serveRequest(t, handler, http.MethodPost, "/api/stations")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)

	resp, _ = serveRequest(t, handler, http.MethodGet, "/api/recommendations")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	_, handler := createTestApi(t, defaultTestConfig())

	resp, _ := serveRequest(t, handler, http.MethodGet, "/api/health")
	assert.NotEmpty(t, resp.Header().Get("X-Request-ID"))
}

func TestRequestIDFromClient(t *testing.T) {
	_, handler := createTestApi(t, defaultTestConfig())

	// A well-formed client ID is echoed back unchanged.
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "trace-42.a:b")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, "trace-42.a:b", resp.Header().Get("X-Request-ID"))

	// One with unsafe characters is replaced with a generated ID.
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "bad id\"with junk")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	echoed := resp.Header().Get("X-Request-ID")
	assert.NotEmpty(t, echoed)
	assert.NotEqual(t, "bad id\"with junk", echoed)
}

func TestResponsesAreNotCacheable(t *testing.T) {
	_, handler := createTestApi(t, defaultTestConfig())

	resp, _ := serveRequest(t, handler, http.MethodGet, "/api/stations")
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header().Get("Cache-Control"))
}

func TestMetricsEndpoint(t *testing.T) {
	_, handler := createTestApi(t, defaultTestConfig())

	// Generate one API request so the counter has something to report.
	serveRequest(t, handler, http.MethodGet, "/api/stations")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "smarttransit_http_requests_total")
}

func TestMetricsRecordStatusAndPattern(t *testing.T) {
	_, handler := createTestApi(t, defaultTestConfig())

	// An unknown station yields a 404, which the counter must label with
	// the route pattern rather than the literal URL.
	serveRequest(t, handler, http.MethodGet, "/api/stations/999")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	metricsBody := resp.Body.String()
	assert.Contains(t, metricsBody, "/api/stations/{id}")
	assert.Contains(t, metricsBody, `status="404"`)
	assert.NotContains(t, metricsBody, "/api/stations/999")
}

func TestRateLimitAppliesToAPIOnly(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.RateLimit = 2
	_, handler := createTestApi(t, cfg)

	resp, _ := serveRequest(t, handler, http.MethodGet, "/api/stations")
	assert.Equal(t, http.StatusOK, resp.Code)
	resp, _ = serveRequest(t, handler, http.MethodGet, "/api/stations")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp, body := serveRequest(t, handler, http.MethodGet, "/api/stations")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "error", body.Status)
	assert.NotEmpty(t, resp.Header().Get("Retry-After"))

	// Metrics scrapes are never throttled.
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitExemptKeys(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.RateLimit = 1
	cfg.ApiKeys = []string{"dashboard-key"}
	_, handler := createTestApi(t, cfg)

	for i := 0; i < 5; i++ {
		resp, _ := serveRequest(t, handler, http.MethodGet, "/api/stations?key=dashboard-key")
		assert.Equal(t, http.StatusOK, resp.Code)
	}
}
