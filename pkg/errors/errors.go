package errors

import "errors"

// Cache sentinels. Adapters translate their backend's miss signal into
// ErrCacheMiss so callers never import a cache library to test for it.
var (
	ErrCacheMiss    = errors.New("cache: key not found")
	ErrCacheExpired = errors.New("cache: entry expired")
)
