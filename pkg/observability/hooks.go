// Package observability lets main attach instrumentation to the pipeline,
// the caches and the HTTP server without those packages importing a metrics
// or tracing backend.
//
// Each event category has an interface and a no-op implementation. Library
// code fetches the current hooks with [Pipeline], [Cache] or [HTTP] and calls
// them unconditionally:
//
//	observability.Pipeline().OnParseStart(ctx, "floorplan", "ami33.block")
//
// main swaps implementations in once, before any work starts:
//
//	observability.SetPipelineHooks(observability.NewLogHooks(logger))
//
// [LogHooks] is the only implementation shipped; fpviz registers it for all
// three categories when run with --verbose.
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the visualization pipeline. kind is one
// of "floorplan", "overlap" or "placement".
type PipelineHooks interface {
	// Parse events
	OnParseStart(ctx context.Context, kind, input string)
	OnParseComplete(ctx context.Context, kind, input string, items int, duration time.Duration, err error)

	// Analysis events (HPWL, verification, overlap detection)
	OnAnalyzeStart(ctx context.Context, kind string, items int)
	OnAnalyzeComplete(ctx context.Context, kind string, duration time.Duration, err error)

	// Findings. OnOverlaps fires after every overlap detection, also when
	// nothing overlaps; OnVerified fires after a floorplan verification.
	OnOverlaps(ctx context.Context, kind, method string, overlapping, pairs int)
	OnVerified(ctx context.Context, name string, errors, findings int)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is the key's
// namespace, "analysis" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives the requests handled by fpviz serve.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnAnalyzeStart(context.Context, string, int)                      {}
func (NoopPipelineHooks) OnAnalyzeComplete(context.Context, string, time.Duration, error)  {}
func (NoopPipelineHooks) OnOverlaps(context.Context, string, string, int, int)             {}
func (NoopPipelineHooks) OnVerified(context.Context, string, int, int)                     {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry holds the current hooks. Setters replace it wholesale so readers
// only take the lock to copy one interface value.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var (
	mu    sync.RWMutex
	hooks = defaults()
)

func defaults() registry {
	return registry{NoopPipelineHooks{}, NoopCacheHooks{}, NoopHTTPHooks{}}
}

func update(f func(*registry)) {
	mu.Lock()
	defer mu.Unlock()
	f(&hooks)
}

func current() registry {
	mu.RLock()
	defer mu.RUnlock()
	return hooks
}

// SetPipelineHooks replaces the pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks replaces the cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks replaces the HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Pipeline returns the current pipeline hooks.
func Pipeline() PipelineHooks { return current().pipeline }

// Cache returns the current cache hooks.
func Cache() CacheHooks { return current().cache }

// HTTP returns the current HTTP hooks.
func HTTP() HTTPHooks { return current().http }

// Reset restores the no-op hooks.
func Reset() {
	update(func(r *registry) { *r = defaults() })
}
