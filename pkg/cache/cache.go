// Package cache stores rendered artifacts so repeated graph requests against
// the same document skip layout and rendering.
//
// A [Cache] is a byte store with optional per-entry expiry. [MemoryCache]
// keeps entries in process memory and is safe for concurrent use;
// [NullCache] never stores anything and disables caching. [Scoped] prefixes
// every key, so one store can serve several documents without collisions.
//
// Keys are built with [ArtifactKey], which hashes the render parameters:
//
//	c := cache.Scoped(cache.NewMemoryCache(), src.ID)
//	key := cache.ArtifactKey("@I1@", "svg", false)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// ArtifactKey returns the key for a rendered person graph.
// rootID is empty when the whole document was drawn.
func ArtifactKey(rootID, format string, detailed bool) string {
	return hashKey("artifact", rootID, format, detailed)
}

// scoped prefixes every key of an inner cache.
type scoped struct {
	inner  Cache
	prefix string
}

// Scoped returns a view of c whose keys are isolated under prefix.
// Closing the view closes c.
func Scoped(c Cache, prefix string) Cache {
	return &scoped{inner: c, prefix: prefix + ":"}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

func (s *scoped) Close() error { return s.inner.Close() }
