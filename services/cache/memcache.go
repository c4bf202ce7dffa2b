package cache

import (
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheService implements CacheService using memcache
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService creates a new memcache service
func NewMemcacheService(serverAddr string) *MemcacheService {
	client := memcache.New(serverAddr)
	client.Timeout = 500 * time.Millisecond
	return &MemcacheService{client: client}
}

// Get retrieves a value from memcache
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// Set stores a value in memcache. Durations under a second are rounded up
// since memcache counts whole seconds and zero means no expiry.
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	seconds := int32(expiration.Seconds())
	if expiration > 0 && seconds == 0 {
		seconds = 1
	}
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: seconds,
	})
}
