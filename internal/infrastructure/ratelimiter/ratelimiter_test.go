package ratelimiter

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, rate, burst int) (*RateLimiter, *manualClock) {
	t.Helper()

	clock := &manualClock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	rl := New(Options{
		MaxRatePerSecond: rate,
		MaxBurst:         burst,
		CacheTTL:         time.Hour,
		Now:              clock.now,
	})
	t.Cleanup(func() { _ = rl.Close() })

	return rl, clock
}

func TestAllowUpToBurstThenDeny(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.Equal(t, 0, rl.Remaining("10.0.0.1"))
}

func TestKeysAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, 1)

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestRefillOverTime(t *testing.T) {
	rl, clock := newTestLimiter(t, 2, 2)

	require.True(t, rl.Allow("k"))
	require.True(t, rl.Allow("k"))
	require.False(t, rl.Allow("k"))

	clock.advance(500 * time.Millisecond)
	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))

	clock.advance(10 * time.Second)
	assert.Equal(t, 2, rl.Remaining("k"))
}

func TestRefillKeepsFractionalProgress(t *testing.T) {
	rl, clock := newTestLimiter(t, 10, 1)

	require.True(t, rl.Allow("k"))

	// 100ms buys one token at 10/s. Poll in 30ms steps; the partial
	// progress must accumulate across polls rather than reset.
	clock.advance(30 * time.Millisecond)
	assert.False(t, rl.Allow("k"))
	clock.advance(30 * time.Millisecond)
	assert.False(t, rl.Allow("k"))
	clock.advance(30 * time.Millisecond)
	assert.False(t, rl.Allow("k"))
	clock.advance(30 * time.Millisecond)
	assert.True(t, rl.Allow("k"))
}

func TestRetryAfter(t *testing.T) {
	rl, _ := newTestLimiter(t, 10, 10)
	assert.Equal(t, 1, rl.RetryAfter())
	assert.Equal(t, 10, rl.GetMaxBurst())
}

func TestNewDefaults(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 5})
	t.Cleanup(func() { _ = rl.Close() })

	assert.Equal(t, 5, rl.GetMaxBurst())
	assert.Equal(t, 10*time.Second, rl.cacheTTL)
	assert.Empty(t, rl.sourceHeaderKey)
}

func TestGetSourceKeyUsesPeerHost(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1})
	t.Cleanup(func() { _ = rl.Close() })

	testCases := []struct {
		name       string
		remoteAddr string
		header     string
		want       string
	}{
		{name: "ipv4", remoteAddr: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "ipv6", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "no_port", remoteAddr: "192.0.2.1", want: "192.0.2.1"},
		{name: "client_header_ignored", remoteAddr: "192.0.2.1:1234", header: "203.0.113.9", want: "192.0.2.1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.header != "" {
				req.Header.Set("X-Forwarded-For", tc.header)
			}
			assert.Equal(t, tc.want, rl.GetSourceKey(req))
		})
	}
}

func TestGetSourceKeyUsesConfiguredProxyHeader(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, SourceHeaderKey: "Fly-Client-IP"})
	t.Cleanup(func() { _ = rl.Close() })

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	assert.Equal(t, "10.0.0.2", rl.GetSourceKey(req))

	req.Header.Set("Fly-Client-IP", " 203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", rl.GetSourceKey(req))
}

func TestSameHostOnNewPortsSharesBucket(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, 2)

	allowed := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.RemoteAddr = fmt.Sprintf("203.0.113.7:%d", 40000+i)
		if rl.Allow(rl.GetSourceKey(req)) {
			allowed++
		}
	}

	assert.Equal(t, 2, allowed)
}

func TestLockIsStablePerKey(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, 1)

	assert.Same(t, rl.getLock("203.0.113.7"), rl.getLock("203.0.113.7"))

	seen := make(map[*sync.Mutex]struct{})
	for i := 0; i < 10000; i++ {
		seen[rl.getLock(fmt.Sprintf("key-%d", i))] = struct{}{}
	}
	assert.LessOrEqual(t, len(seen), lockStripes)
}

func TestAllowIsSafeForConcurrentUse(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, 50)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("shared") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(50), allowed.Load())
}

func TestInMemoryExpiry(t *testing.T) {
	im := NewInMemory()
	t.Cleanup(func() { _ = im.Close() })

	require.NoError(t, im.SetWithExpiration("short", 1, time.Millisecond))
	require.NoError(t, im.Set("forever", 2))

	time.Sleep(5 * time.Millisecond)

	_, err := im.Get("short")
	assert.ErrorIs(t, err, ErrCacheMiss)

	v, err := im.Get("forever")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	im.removeExpired(time.Now())
	assert.Equal(t, 1, im.Len())
}

func TestInMemoryCloseIsIdempotent(t *testing.T) {
	im := NewInMemory()
	assert.NoError(t, im.Close())
	assert.NoError(t, im.Close())
}
