package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/netgraph/pkg/observability"
)

var (
	_ observability.PipelineHooks  = (*Registry)(nil)
	_ observability.CacheHooks     = (*Registry)(nil)
	_ observability.ComponentHooks = (*Registry)(nil)
)

// Install registers r as the pipeline, cache and component hooks.
func (r *Registry) Install() {
	observability.SetPipelineHooks(r)
	observability.SetCacheHooks(r)
	observability.SetComponentHooks(r)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

func (r *Registry) OnBuildStart(context.Context, int) {
	r.PipelinesInFlight.Inc()
}

func (r *Registry) OnBuildComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	r.PipelinesInFlight.Dec()
	r.BuildsTotal.WithLabelValues(status(err)).Inc()
	r.BuildDuration.Observe(d.Seconds())
	if err == nil {
		r.TopologyNodes.Observe(float64(nodes))
		r.TopologyEdges.Observe(float64(edges))
	}
}

func (r *Registry) OnRenderStart(context.Context, []string) {
	r.PipelinesInFlight.Inc()
}

func (r *Registry) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	r.PipelinesInFlight.Dec()
	st := status(err)
	for _, f := range formats {
		r.RendersTotal.WithLabelValues(f, st).Inc()
	}
	r.RenderDuration.WithLabelValues(strings.Join(formats, ",")).Observe(d.Seconds())
}

// =============================================================================
// Cache Hooks
// =============================================================================

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

// =============================================================================
// Component Hooks
// =============================================================================

func (r *Registry) OnTrigger(_ context.Context, trigger string) {
	r.TriggersTotal.WithLabelValues(trigger).Inc()
}

func (r *Registry) OnDraw(_ context.Context, commands int, d time.Duration, err error) {
	r.DrawsTotal.WithLabelValues(status(err)).Inc()
	r.DrawDuration.Observe(d.Seconds())
	if err == nil {
		r.DrawCommands.Observe(float64(commands))
	}
}

func (r *Registry) OnSuperseded(context.Context) {
	r.SupersededTotal.Inc()
}
