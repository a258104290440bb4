package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/essay-board-backend/database"
)

func TestHealthLive(t *testing.T) {
	router, _ := setupTestRouter(t, nil)

	rec := doRequest(t, router, http.MethodGet, "/health/live", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[healthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Timestamp)
	assert.NotEmpty(t, resp.Uptime)
}

func TestHealthReady(t *testing.T) {
	t.Run("store readable", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)
		rec := doRequest(t, router, http.MethodGet, "/health/ready", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store failing", func(t *testing.T) {
		router := newRouter(database.New(failingRepo{}))
		rec := doRequest(t, router, http.MethodGet, "/health/ready", "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		resp := decodeBody[ErrorResponse](t, rec)
		assert.Equal(t, "database connection failed", resp.Error)
		assert.Equal(t, resp.Error, resp.Message)
		assert.Equal(t, "Unable to reach the essay store", resp.Details)
		assert.NotContains(t, rec.Body.String(), "/srv/secret")
	})
}

func TestMetricsUseRoutePattern(t *testing.T) {
	router, _ := setupTestRouter(t, nil)
	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/essays/{essayID}", "404")
	before := testutil.ToFloat64(counter)

	doRequest(t, router, http.MethodGet, "/api/essays/first-missing", "")
	doRequest(t, router, http.MethodGet, "/api/essays/second-missing", "")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))

	rec := doRequest(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "essayboard_http_requests_total")
	assert.Contains(t, rec.Body.String(), "essayboard_http_request_duration_seconds")
	assert.NotContains(t, rec.Body.String(), "first-missing")
}

func TestPanicIsRecovered(t *testing.T) {
	r := chi.NewRouter()
	r.Use(LogInternalServerErrors)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("something broke")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeBody[ErrorResponse](t, rec).Error)
	assert.NotContains(t, rec.Body.String(), "something broke")
}

func TestPanicIsLoggedAndCounted(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })

	r := chi.NewRouter()
	useMiddleware(r, []string{"*"})
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("something broke")
	})
	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "500")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	var accessLine map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] == "HTTP Request" {
			accessLine = entry
		}
	}
	require.NotNil(t, accessLine, "no access log line in %s", buf.String())
	assert.Equal(t, float64(http.StatusInternalServerError), accessLine["status"])
	assert.Equal(t, "error", accessLine["level"])
	assert.Equal(t, "/boom", accessLine["path"])
	assert.NotEmpty(t, accessLine["request_id"])
}

func TestCORS(t *testing.T) {
	router, _ := setupTestRouter(t, map[string]string{"ACCEPTED_ORIGINS": "https://essays.example"})

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/essays", nil)
		req.Header.Set("Origin", "https://essays.example")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://essays.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/essays", nil)
		req.Header.Set("Origin", "https://elsewhere.example")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/essays", nil)
		req.Header.Set("Origin", "https://essays.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "https://essays.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})
}

func TestNewServer(t *testing.T) {
	_, repo := setupTestRouter(t, nil)

	server, err := NewServer(database.New(repo), map[string]string{
		"PORT":                 "8081",
		"READ_TIMEOUT_SECONDS": "5",
	})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8081", server.Addr)
	assert.Equal(t, int64(5), int64(server.ReadTimeout.Seconds()))

	_, err = NewServer(database.Database{}, nil)
	assert.Error(t, err)
}

func TestServerDefaultPort(t *testing.T) {
	_, repo := setupTestRouter(t, nil)

	server, err := NewServer(database.New(repo), nil)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:5000", server.Addr)
}
