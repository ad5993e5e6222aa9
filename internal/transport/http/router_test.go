package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econtab/internal/config"
	"econtab/internal/fetch"
	"econtab/internal/pipeline"
	"econtab/internal/shared/testutil"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger, _ := testutil.NewCaptureLogger(t)
	fetcher := fetch.New(config.FetchConfig{Timeout: 5 * time.Second, UserAgent: "test"}, logger)
	runner := pipeline.NewRunner(fetcher, logger)

	router := NewRouter(config.ServerConfig{}, RouterDeps{
		Runner: runner,
		Logger: logger,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestFormatsEndpoint(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/formats")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body FormatsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.InputKinds, "csv")
	assert.Contains(t, body.InputKinds, "xlsx")
	assert.Contains(t, body.ExportFormats, "latex")
	assert.Contains(t, body.ExportFormats, "markdown")
}

func TestPipelineEndpoint(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("country,gdp\nSweden,635.7\nNorway,482.2\n"))
	}))
	defer upstream.Close()

	srv := testServer(t)

	reqBody := fmt.Sprintf(`{
		"source": %q,
		"normalization": {"coercions": [{"column": "gdp", "to": "float"}]},
		"query": {"sort": [{"column": "gdp", "descending": true}]},
		"format": "csv"
	}`, upstream.URL)

	resp, err := http.Post(srv.URL+"/api/v1/pipeline", "application/json", bytes.NewBufferString(reqBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body PipelineResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.RunID)
	assert.Equal(t, []string{"country", "gdp"}, body.Columns)
	assert.Equal(t, 2, body.Rows)
	assert.Equal(t, "csv", body.Format)
	assert.Equal(t, "country,gdp\nSweden,635.7\nNorway,482.2\n", body.Output)
}

func TestPipelineEndpointValidation(t *testing.T) {
	srv := testServer(t)

	// source is required
	resp, err := http.Post(srv.URL+"/api/v1/pipeline", "application/json", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "invalid_argument", body["error_code"])
}

func TestPipelineEndpointMalformedBody(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/pipeline", "application/json", bytes.NewBufferString(`{`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPipelineEndpointUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	srv := testServer(t)

	reqBody := fmt.Sprintf(`{"source": %q}`, upstream.URL)
	resp, err := http.Post(srv.URL+"/api/v1/pipeline", "application/json", bytes.NewBufferString(reqBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "network", body["error_code"])
	assert.Equal(t, "fetch", body["stage"])
}

func TestRateLimitOnRouter(t *testing.T) {
	logger, _ := testutil.NewCaptureLogger(t)
	fetcher := fetch.New(config.FetchConfig{Timeout: time.Second}, logger)
	runner := pipeline.NewRunner(fetcher, logger)

	cfg := config.ServerConfig{
		RateLimit: config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1},
	}
	router := NewRouter(cfg, RouterDeps{Runner: runner, Logger: logger})
	srv := httptest.NewServer(router)
	defer srv.Close()

	first, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	first.Body.Close()
	second, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	second.Body.Close()

	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}
