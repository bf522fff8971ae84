// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through a small set of hook interfaces; the binary
// decides what, if anything, receives them. The defaults are no-ops, so the
// filter core carries no dependency on a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := prom.New()
//	    observability.SetFilterHooks(m)
//	    observability.SetCacheHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Filter().OnStreamStart(ctx, runID, predicates)
//	// ... filter the stream ...
//	observability.Filter().OnStreamComplete(ctx, runID, read, accepted, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Filter Hooks
// =============================================================================

// FilterHooks receives events from the stream filter loop.
type FilterHooks interface {
	// OnStreamStart fires once before the first graph is requested.
	OnStreamStart(ctx context.Context, runID string, predicates []string)

	// OnGraphEvaluated fires after each graph has been tested. failed names
	// the first predicate that rejected the graph and is empty on accept.
	OnGraphEvaluated(ctx context.Context, order int, accepted bool, failed string, duration time.Duration)

	// OnStreamComplete fires when the stream ends, normally or with err.
	OnStreamComplete(ctx context.Context, runID string, read, accepted int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFilterHooks is a no-op implementation of FilterHooks.
type NoopFilterHooks struct{}

func (NoopFilterHooks) OnStreamStart(context.Context, string, []string)                    {}
func (NoopFilterHooks) OnGraphEvaluated(context.Context, int, bool, string, time.Duration) {}
func (NoopFilterHooks) OnStreamComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	filterHooks FilterHooks = NoopFilterHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetFilterHooks registers custom filter hooks.
// This should be called once at application startup before any stream runs.
func SetFilterHooks(h FilterHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		filterHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Filter returns the registered filter hooks.
func Filter() FilterHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return filterHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	filterHooks = NoopFilterHooks{}
	cacheHooks = NoopCacheHooks{}
}
