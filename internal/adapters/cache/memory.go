package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shafiq-apps/afs-staging-sub001/pkg/errors"
	"github.com/shafiq-apps/afs-staging-sub001/pkg/interfaces"
)

// MemoryCache is the default in-process TTL cache, backed by go-cache.
// Expired entries read as misses; the janitor purges them in the
// background.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache builds an in-process cache. defaultTTL governs entries
// stored with expiration 0; cleanupInterval is the janitor period.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) interfaces.CachePort {
	return &MemoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	val, found := m.store.Get(key)
	if !found {
		return nil, errors.ErrCacheMiss
	}
	b, ok := val.([]byte)
	if !ok {
		// Foreign value under our key; treat as a miss and purge.
		m.store.Delete(key)
		return nil, errors.ErrCacheMiss
	}
	return b, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	if expiration == 0 {
		expiration = gocache.DefaultExpiration
	}
	m.store.Set(key, value, expiration)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.store.Delete(key)
	return nil
}

func (m *MemoryCache) Flush(_ context.Context) error {
	m.store.Flush()
	return nil
}

func (m *MemoryCache) Close() error {
	return nil
}
