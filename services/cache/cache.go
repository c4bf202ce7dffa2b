package cache

import (
	"errors"
	"time"

	"sjsage522/housingworker/logger"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache: miss")

// CacheService is the small key/value store used for per-target
// cooldown markers.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value with an expiration time
	Set(key string, value []byte, expiration time.Duration) error
}

// New returns a memcache-backed service when addr is set and an
// in-process cache otherwise.
func New(addr string) CacheService {
	if addr == "" {
		logger.ForCache().Info().Msg("Using in-process cache")
		return NewMemoryCache()
	}
	logger.ForCache().Info().Str("addr", addr).Msg("Using memcache")
	return NewMemcacheService(addr)
}
