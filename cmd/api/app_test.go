package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttransit.seoullab.org/internal/appconf"
	"smarttransit.seoullab.org/internal/logging"
	"smarttransit.seoullab.org/internal/restapi"
)

func testConfig() appconf.Config {
	return appconf.Config{
		Port:      0,
		Env:       appconf.Test,
		RateLimit: -1,
		DBPath:    ":memory:",
	}
}

func buildTestHandler(t *testing.T) http.Handler {
	t.Helper()

	application, cleanup, err := BuildApplication(testConfig(), logging.NewLogger(false))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	api := restapi.NewRestAPI(application)
	t.Cleanup(api.Shutdown)

	return BuildHandler(application, api)
}

func TestBuildApplicationWiring(t *testing.T) {
	application, cleanup, err := BuildApplication(testConfig(), logging.NewLogger(false))
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, application.Stations)
	assert.NotNil(t, application.Generator)
	assert.NotNil(t, application.Metro)
	assert.NotNil(t, application.Clock)
	assert.NotNil(t, application.Metrics)
}

func TestHandlerServesAPI(t *testing.T) {
	handler := buildTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/stations", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Total int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 9, body.Data.Total)
}

func TestCreateServerTimeouts(t *testing.T) {
	srv := CreateServer(appconf.Config{Port: 3001}, http.NotFoundHandler())

	assert.Equal(t, ":3001", srv.Addr)
	assert.NotZero(t, srv.ReadTimeout)
	assert.NotZero(t, srv.WriteTimeout)
	assert.NotZero(t, srv.IdleTimeout)
}

func TestSplitAPIKeys(t *testing.T) {
	assert.Nil(t, splitAPIKeys(""))
	assert.Equal(t, []string{"a", "b"}, splitAPIKeys("a, b"))
	assert.Equal(t, []string{"solo"}, splitAPIKeys("solo,,"))
}
