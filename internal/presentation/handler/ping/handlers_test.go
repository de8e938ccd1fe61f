package ping

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rsvshop/rsvshop/internal/infrastructure/logging"
	"github.com/rsvshop/rsvshop/internal/infrastructure/uptime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type steppedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *steppedClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *steppedClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type pingBody struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

func doPing(t *testing.T, h *Handler) pingBody {
	t.Helper()

	rr := httptest.NewRecorder()
	h.GetPing(rr, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body pingBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestGetPingShape(t *testing.T) {
	h := NewHandler(uptime.New(), logging.NewNop())

	rr := httptest.NewRecorder()
	h.GetPing(rr, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Len(t, raw, 3)
	assert.Equal(t, "ok", raw["status"])
	assert.IsType(t, "", raw["timestamp"])
	assert.IsType(t, float64(0), raw["uptime"])
}

func TestGetPingTimestampIsCurrent(t *testing.T) {
	h := NewHandler(uptime.New(), logging.NewNop())

	before := time.Now()
	body := doPing(t, h)

	ts, err := time.Parse(time.RFC3339Nano, body.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, before, ts, 2*time.Second)
	assert.Equal(t, "Z", body.Timestamp[len(body.Timestamp)-1:])
}

func TestGetPingUptimeIsNonDecreasing(t *testing.T) {
	h := NewHandler(uptime.New(), logging.NewNop())

	first := doPing(t, h)
	time.Sleep(10 * time.Millisecond)
	second := doPing(t, h)

	assert.GreaterOrEqual(t, first.Uptime, 0.0)
	assert.GreaterOrEqual(t, second.Uptime, first.Uptime)
	assert.Equal(t, "ok", first.Status)
	assert.Equal(t, "ok", second.Status)
}

func TestGetPingUptimeTracksClock(t *testing.T) {
	clock := &steppedClock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	h := NewHandler(uptime.NewWithNow(clock.now), logging.NewNop())

	clock.advance(2500 * time.Millisecond)
	first := doPing(t, h)
	clock.advance(time.Second)
	second := doPing(t, h)

	assert.InDelta(t, 2.5, first.Uptime, 1e-9)
	assert.InDelta(t, 1.0, second.Uptime-first.Uptime, 1e-9)
	assert.Equal(t, "2026-10-18T09:00:03.500Z", second.Timestamp)
}

func TestGetPingIgnoresInput(t *testing.T) {
	h := NewHandler(uptime.New(), logging.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/ping?verbose=1&db=check", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rr := httptest.NewRecorder()
	h.GetPing(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHeadPing(t *testing.T) {
	h := NewHandler(uptime.New(), logging.NewNop())

	rr := httptest.NewRecorder()
	h.HeadPing(rr, httptest.NewRequest(http.MethodHead, "/api/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}
