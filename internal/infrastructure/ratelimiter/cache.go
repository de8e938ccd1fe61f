package ratelimiter

import (
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// GetterSetter is the bucket storage. The in-memory implementation is the
// only one today; the interface keeps a shared store possible for multiple
// replicas behind one load balancer.
type GetterSetter interface {
	Get(key string) (int, error)
	Set(key string, value int) error
	SetWithExpiration(key string, value int, expiration time.Duration) error
	Close() error
}
