package interfaces

import (
	"context"
	"time"
)

// CachePort is the response-cache boundary used by the query client.
// The default implementation is an in-process TTL cache; a Redis adapter
// exists for deployments that want the cache shared between instances.
type CachePort interface {
	// Get returns the value stored under key.
	// Returns errors.ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for the given expiration.
	// An expiration of 0 means the adapter's default TTL.
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Flush drops every entry.
	Flush(ctx context.Context) error

	// Close releases any underlying connections.
	Close() error
}
