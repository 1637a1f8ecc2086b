// Package metrics implements the observability hooks with Prometheus
// collectors and serves them over HTTP.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "netgraph"

// Registry holds every netgraph collector on its own Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Pipeline
	BuildsTotal       *prometheus.CounterVec
	BuildDuration     prometheus.Histogram
	TopologyNodes     prometheus.Histogram
	TopologyEdges     prometheus.Histogram
	RendersTotal      *prometheus.CounterVec
	RenderDuration    *prometheus.HistogramVec
	PipelinesInFlight prometheus.Gauge

	// Cache
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheSetBytes    *prometheus.HistogramVec

	// Component
	TriggersTotal   *prometheus.CounterVec
	DrawsTotal      *prometheus.CounterVec
	DrawDuration    prometheus.Histogram
	DrawCommands    prometheus.Histogram
	SupersededTotal prometheus.Counter
	ViewsActive     prometheus.Gauge
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all collectors initialized, plus the
// Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{registry: reg}
	r.initHTTPMetrics()
	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initComponentMetrics()
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
