package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rsvshop/rsvshop/internal/infrastructure/logging"
	"github.com/rsvshop/rsvshop/internal/infrastructure/uptime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(elapsed time.Duration) *Handler {
	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	now := start
	clock := uptime.NewWithNow(func() time.Time { return now })
	now = start.Add(elapsed)

	return NewHandler(clock, "1.4.2", logging.NewNop())
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) healthResponse {
	t.Helper()

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestGetHealth(t *testing.T) {
	h := newTestHandler(2*time.Hour + 30*time.Minute + 45*time.Second + 400*time.Millisecond)

	rr := httptest.NewRecorder()
	h.GetHealth(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	assert.Equal(t, "ok", string(resp.Status))
	assert.Equal(t, "2h30m45s", resp.UptimeHuman)
	assert.InDelta(t, 9045.4, resp.Uptime, 1e-6)
	assert.Equal(t, "1.4.2", resp.Version)
	assert.Equal(t, "2026-10-18T11:30:45.400Z", resp.Timestamp)
	assert.Equal(t, "2026-10-18T09:00:00.000Z", resp.StartedAt)

	_, err := uuid.Parse(resp.Instance)
	assert.NoError(t, err)
}

func TestInstanceIsStablePerHandler(t *testing.T) {
	h := newTestHandler(time.Second)

	first := httptest.NewRecorder()
	h.GetHealth(first, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	second := httptest.NewRecorder()
	h.GetHealth(second, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, decode(t, first).Instance, decode(t, second).Instance)
	assert.NotEqual(t, h.instance, newTestHandler(time.Second).instance)
}

func TestReadinessFlipsOnDrain(t *testing.T) {
	h := newTestHandler(time.Minute)

	rr := httptest.NewRecorder()
	h.GetReady(rr, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, h.Ready())

	h.Drain()
	h.Drain()
	assert.False(t, h.Ready())

	rr = httptest.NewRecorder()
	h.GetReady(rr, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "unavailable", string(decode(t, rr).Status))

	rr = httptest.NewRecorder()
	h.GetHealth(rr, httptest.NewRequest(http.MethodGet, "/api/health/live", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
