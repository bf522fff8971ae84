package cache

import (
	"context"
	"time"

	"github.com/matzehuels/trisieve/pkg/observability"
)

// Instrumented reports hits, misses and writes to the registered
// [observability.CacheHooks]. keyType labels every event.
type Instrumented struct {
	Cache
	keyType string
}

// NewInstrumented wraps c.
func NewInstrumented(c Cache, keyType string) *Instrumented {
	return &Instrumented{Cache: c, keyType: keyType}
}

// Unwrap returns the wrapped cache.
func (c *Instrumented) Unwrap() Cache { return c.Cache }

// Get forwards to the wrapped cache and records a hit or a miss.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, c.keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, c.keyType)
	}
	return data, hit, nil
}

// Set forwards to the wrapped cache and records the entry size.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	return nil
}
