package ratelimiter

import (
	"errors"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	bucketKeyPrefix   = "rl:bucket:"
	lastFillKeyPrefix = "rl:fill:"
	lockStripes       = 256
)

type Limiter interface {
	Allow(sourceKey string) bool
	GetSourceKey(r *http.Request) string
	Remaining(sourceKey string) int
	GetMaxBurst() int
	RetryAfter() int
	Close() error
}

// RateLimiter is a token bucket per source key. Buckets start full and
// refill at maxRatePerSecond up to maxBurst.
type RateLimiter struct {
	maxRatePerMillisecond float64
	maxBurst              int
	cache                 GetterSetter
	cacheTTL              time.Duration
	sourceHeaderKey       string
	now                   func() time.Time
	// Keys hash onto a fixed set of mutexes; the table never grows.
	locks [lockStripes]sync.Mutex
}

func (rl *RateLimiter) getLock(sourceKey string) *sync.Mutex {
	return &rl.locks[xxhash.Sum64String(sourceKey)%lockStripes]
}

func (rl *RateLimiter) getBucketKeyFor(sourceKey string) string {
	return bucketKeyPrefix + sourceKey
}

func (rl *RateLimiter) getLastFillKeyFor(sourceKey string) string {
	return lastFillKeyPrefix + sourceKey
}

type bucketState struct {
	tokens   int
	lastFill int64 // Unix milliseconds
}

func (rl *RateLimiter) fullBucket() bucketState {
	return bucketState{
		tokens:   rl.maxBurst,
		lastFill: rl.now().UnixMilli(),
	}
}

func (rl *RateLimiter) getState(sourceKey string) bucketState {
	bucket, bucketErr := rl.cache.Get(rl.getBucketKeyFor(sourceKey))
	lastFill, fillErr := rl.cache.Get(rl.getLastFillKeyFor(sourceKey))

	if errors.Is(bucketErr, ErrCacheMiss) || errors.Is(fillErr, ErrCacheMiss) {
		return rl.fullBucket()
	}

	// On cache error (not miss), fail open with full bucket
	if bucketErr != nil || fillErr != nil {
		return rl.fullBucket()
	}

	return bucketState{
		tokens:   bucket,
		lastFill: int64(lastFill),
	}
}

func (rl *RateLimiter) setState(sourceKey string, state bucketState) {
	_ = rl.cache.SetWithExpiration(rl.getBucketKeyFor(sourceKey), state.tokens, rl.cacheTTL)
	_ = rl.cache.SetWithExpiration(rl.getLastFillKeyFor(sourceKey), int(state.lastFill), rl.cacheTTL)
}

// refillTokens adds whole tokens only and advances lastFill by exactly the
// time those tokens represent, so fractional progress carries over to the
// next call instead of being dropped.
func (rl *RateLimiter) refillTokens(state bucketState, now int64) bucketState {
	elapsed := now - state.lastFill
	if elapsed <= 0 {
		return state
	}

	if state.tokens >= rl.maxBurst {
		return bucketState{tokens: rl.maxBurst, lastFill: now}
	}

	whole := int(math.Floor(float64(elapsed) * rl.maxRatePerMillisecond))
	if whole <= 0 {
		return state
	}

	newTokens := state.tokens + whole
	if newTokens >= rl.maxBurst {
		return bucketState{tokens: rl.maxBurst, lastFill: now}
	}

	return bucketState{
		tokens:   newTokens,
		lastFill: state.lastFill + int64(float64(whole)/rl.maxRatePerMillisecond),
	}
}

func (rl *RateLimiter) Remaining(sourceKey string) int {
	lock := rl.getLock(sourceKey)
	lock.Lock()
	defer lock.Unlock()

	state := rl.getState(sourceKey)
	newState := rl.refillTokens(state, rl.now().UnixMilli())

	if newState != state {
		rl.setState(sourceKey, newState)
	}

	return newState.tokens
}

func (rl *RateLimiter) GetMaxBurst() int {
	return rl.maxBurst
}

// RetryAfter is the number of whole seconds until at least one token is back.
func (rl *RateLimiter) RetryAfter() int {
	seconds := int(math.Ceil(1 / (rl.maxRatePerMillisecond * 1000)))
	if seconds < 1 {
		return 1
	}
	return seconds
}

func (rl *RateLimiter) Allow(sourceKey string) bool {
	lock := rl.getLock(sourceKey)
	lock.Lock()
	defer lock.Unlock()

	state := rl.getState(sourceKey)
	newState := rl.refillTokens(state, rl.now().UnixMilli())

	if newState.tokens > 0 {
		newState.tokens--
		rl.setState(sourceKey, newState)
		return true
	}

	if newState != state {
		rl.setState(sourceKey, newState)
	}

	return false
}

// GetSourceKey returns the first value of the configured header, which must
// be one a fronting proxy sets, or else the host part of RemoteAddr.
func (rl *RateLimiter) GetSourceKey(r *http.Request) string {
	if rl.sourceHeaderKey != "" {
		if value := r.Header.Get(rl.sourceHeaderKey); value != "" {
			first, _, _ := strings.Cut(value, ",")
			if key := strings.TrimSpace(first); key != "" {
				return key
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) Close() error {
	return rl.cache.Close()
}

type Options struct {
	MaxRatePerSecond int
	MaxBurst         int
	Cache            GetterSetter
	CacheTTL         time.Duration
	SourceHeaderKey  string
	Now              func() time.Time
}

func New(options Options) *RateLimiter {
	if options.Cache == nil {
		options.Cache = NewInMemory()
	}

	if options.CacheTTL == 0 {
		options.CacheTTL = 10 * time.Second
	}

	if options.MaxRatePerSecond <= 0 {
		options.MaxRatePerSecond = 1
	}

	if options.MaxBurst <= 0 {
		options.MaxBurst = options.MaxRatePerSecond
	}

	if options.Now == nil {
		options.Now = time.Now
	}

	return &RateLimiter{
		maxRatePerMillisecond: float64(options.MaxRatePerSecond) / 1000.0,
		maxBurst:              options.MaxBurst,
		cache:                 options.Cache,
		cacheTTL:              options.CacheTTL,
		sourceHeaderKey:       options.SourceHeaderKey,
		now:                   options.Now,
	}
}
