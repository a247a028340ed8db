// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about document loads, graph queries, rendering, and API
// requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the parsing and graph
// packages stay free of any observability framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLoadStart(ctx, path)
//	// ... parse and link ...
//	observability.Pipeline().OnLoadComplete(ctx, path, stats, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// LoadStats summarizes one parsed document.
type LoadStats struct {
	Lines       int
	Individuals int
	Families    int
	Media       int
	Diagnostics int
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the load/query/render pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, stats LoadStats, duration time.Duration, err error)

	// Query events. query is "hierarchy", "hourglass", "connections", ...
	OnQueryStart(ctx context.Context, query, rootID string)
	OnQueryComplete(ctx context.Context, query, rootID string, size int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, format string, nodeCount int)
	OnRenderComplete(ctx context.Context, format string, bytes int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the JSON API server.
type HTTPHooks interface {
	// OnRequest records an incoming request. path is the raw request path,
	// since no route has been matched yet.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response sent for a request. route is the
	// matched route pattern, e.g. "/hourglass/{id}".
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, LoadStats, time.Duration, error) {
}
func (NoopPipelineHooks) OnQueryStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnQueryComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
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
	pipelineHooks = NoopPipelineHooks{}
	httpHooks = NoopHTTPHooks{}
}
