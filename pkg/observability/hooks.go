// Package observability provides instrumentation hooks without binding the
// library to a metrics backend.
//
// Hooks are registered once at startup, typically by the server command:
//
//	observability.SetPipelineHooks(registry)
//	observability.SetCacheHooks(registry)
//	observability.SetComponentHooks(registry)
//
// Libraries emit events through the accessors:
//
//	observability.Pipeline().OnBuildStart(ctx, len(layers))
//	topo, err := network.Build(layers, w, h)
//	observability.Pipeline().OnBuildComplete(ctx, topo.NodeCount(), topo.EdgeCount(), time.Since(start), err)
//
// Until something is registered every accessor returns a no-op.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the build and render stages.
type PipelineHooks interface {
	// Build covers topology construction and layout.
	OnBuildStart(ctx context.Context, layerCount int)
	OnBuildComplete(ctx context.Context, nodeCount, edgeCount int, duration time.Duration, err error)

	// Render covers planning and every requested sink.
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache lookups. keyType is "artifact" or
// "architecture".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Component Hooks
// =============================================================================

// ComponentHooks receives events from mounted graph components.
type ComponentHooks interface {
	// OnTrigger records a re-render request; trigger is "mount", "zoom" or
	// "resize".
	OnTrigger(ctx context.Context, trigger string)

	// OnDraw records a frame handed to a surface.
	OnDraw(ctx context.Context, commands int, duration time.Duration, err error)

	// OnSuperseded records a frame dropped because a newer trigger won.
	OnSuperseded(ctx context.Context)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnBuildStart(context.Context, int)                                {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopComponentHooks ignores every event.
type NoopComponentHooks struct{}

func (NoopComponentHooks) OnTrigger(context.Context, string)                 {}
func (NoopComponentHooks) OnDraw(context.Context, int, time.Duration, error) {}
func (NoopComponentHooks) OnSuperseded(context.Context)                      {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks  PipelineHooks  = NoopPipelineHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	componentHooks ComponentHooks = NoopComponentHooks{}
	hooksMu        sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetComponentHooks registers component hooks. A nil h is ignored.
func SetComponentHooks(h ComponentHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		componentHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Component returns the registered component hooks.
func Component() ComponentHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return componentHooks
}

// Reset restores the no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	componentHooks = NoopComponentHooks{}
}
