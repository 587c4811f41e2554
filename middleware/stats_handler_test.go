package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"qa-service/middleware/domain"
	"qa-service/middleware/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenReader struct{}

func (brokenReader) Snapshot(context.Context) (domain.StatsSnapshot, error) {
	return domain.StatsSnapshot{}, errors.New("boom")
}

func TestStatsHandler(t *testing.T) {
	stats := infra.NewMemoryStatsStore()
	require.NoError(t, stats.Record(context.Background(), domain.RequestEvent{Route: "GET /questions", Status: 200}))
	pool := infra.NewChanPool(4)

	w := httptest.NewRecorder()
	StatsHandler(stats, pool, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Total       map[string]int64            `json:"total"`
		ByRoute     map[string]map[string]int64 `json:"by_route"`
		InFlight    int                         `json:"in_flight"`
		MaxInFlight int                         `json:"max_in_flight"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Total["2xx"])
	assert.Equal(t, int64(1), body.ByRoute["GET /questions"]["2xx"])
	assert.Equal(t, 0, body.InFlight)
	assert.Equal(t, 4, body.MaxInFlight)
}

func TestStatsHandler_ReaderError(t *testing.T) {
	w := httptest.NewRecorder()
	StatsHandler(brokenReader{}, nil, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example/stats", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
