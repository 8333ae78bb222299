// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without wiring a specific
// backend into the placement libraries. Consumers register hooks at startup
// to receive events about sequence positioning, cache operations, and API
// requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// [Metrics] is the OpenTelemetry implementation of every hook interface.
//
// # Usage
//
// Register hooks at application startup:
//
//	m, err := observability.NewMetrics(otel.Meter("flowglyph"))
//	if err != nil { ... }
//	observability.SetPositioningHooks(m)
//	observability.SetCacheHooks(m)
//
// Libraries call hooks to emit events:
//
//	observability.Positioning().OnSequenceStart(ctx, len(seq.Beats))
//	// ... validate and position ...
//	observability.Positioning().OnSequenceComplete(ctx, beats, fixes, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Positioning Hooks
// =============================================================================

// PositioningHooks receives events from the placement engine runner.
type PositioningHooks interface {
	// Sequence events
	OnSequenceStart(ctx context.Context, beats int)
	OnSequenceComplete(ctx context.Context, beats, fixes int, duration time.Duration, err error)

	// OnDecision records one beta positioning decision.
	OnDecision(ctx context.Context, letter, method string, repaired bool)
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
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPositioningHooks is a no-op implementation of PositioningHooks.
type NoopPositioningHooks struct{}

func (NoopPositioningHooks) OnSequenceStart(context.Context, int)                               {}
func (NoopPositioningHooks) OnSequenceComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPositioningHooks) OnDecision(context.Context, string, string, bool)                   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	positioningHooks PositioningHooks = NoopPositioningHooks{}
	cacheHooks       CacheHooks       = NoopCacheHooks{}
	httpHooks        HTTPHooks        = NoopHTTPHooks{}
	hooksMu          sync.RWMutex
)

// SetPositioningHooks registers custom positioning hooks.
// This should be called once at application startup.
func SetPositioningHooks(h PositioningHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		positioningHooks = h
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

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Positioning returns the registered positioning hooks.
func Positioning() PositioningHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return positioningHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	positioningHooks = NoopPositioningHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
