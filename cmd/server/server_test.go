package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"qa-service/logging"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config {
	t.Helper()
	cfg, err := loadConfig("", "", nil)
	require.NoError(t, err)
	return cfg
}

func TestNewApp_ServesSeededQuestions(t *testing.T) {
	a, err := newApp(context.Background(), testConfig(t), logging.Test(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.close() })

	srv := httptest.NewServer(a.handler)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/questions?start=0&end=1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	var got []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0]["id"])
}

func TestNewApp_RequestID(t *testing.T) {
	cfg := testConfig(t)
	a, err := newApp(context.Background(), cfg, logging.Test(t))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/questions", nil)
	r.Header.Set("X-Request-Id", "client-id")
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, r)
	assert.NotEqual(t, "client-id", w.Header().Get("X-Request-Id"))

	cfg.TrustRequestID = true
	a, err = newApp(context.Background(), cfg, logging.Test(t))
	require.NoError(t, err)

	w = httptest.NewRecorder()
	a.handler.ServeHTTP(w, r)
	assert.Equal(t, "client-id", w.Header().Get("X-Request-Id"))
}

func TestNewApp_MalformedSeedIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"1": {"id": "1"`), 0o600))

	cfg := testConfig(t)
	cfg.SeedFile = path

	_, err := newApp(context.Background(), cfg, logging.Test(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load seed")
}

func TestNewApp_MiddlewareChain(t *testing.T) {
	cfg := testConfig(t)
	cfg.CORS.AllowedOrigins = []string{"http://ok.test"}

	a, err := newApp(context.Background(), cfg, logging.Test(t))
	require.NoError(t, err)

	// origem proibida
	r := httptest.NewRequest(http.MethodGet, "/questions", nil)
	r.Header.Set("Origin", "http://evil.test")
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// erro de domínio
	w = httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/questions/does-not-exist", nil))
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code)

	// rota desconhecida
	w = httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// corpo malformado
	w = httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/questions", strings.NewReader("{")))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Total       map[string]int64            `json:"total"`
		ByRoute     map[string]map[string]int64 `json:"by_route"`
		MaxInFlight int                         `json:"max_in_flight"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(4), stats.Total["4xx"])
	assert.Equal(t, int64(1), stats.ByRoute["DELETE /questions/{id}"]["4xx"])
	assert.Equal(t, int64(1), stats.ByRoute["/"]["4xx"])
	assert.Equal(t, 100, stats.MaxInFlight)
}

func TestNewApp_StatsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Stats.Enabled = false
	cfg.Concurrency.Max = 0

	a, err := newApp(context.Background(), cfg, logging.Test(t))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewApp_RedisStats(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.Stats.Backend = "redis"
	cfg.Stats.Redis.Addr = mr.Addr()
	cfg.Stats.Prefix = "it"

	a, err := newApp(context.Background(), cfg, logging.Test(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.close() })

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/questions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "1", mr.HGet("it:total", "2xx"))
	assert.Equal(t, "1", mr.HGet("it:route", "GET /questions:2xx"))
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Stats.Backend = "redis"
	cfg.Stats.Redis.Addr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := newApp(ctx, cfg, logging.Test(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis stats ping")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.ListenAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, cfg, http.NotFoundHandler(), logging.Test(t))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
