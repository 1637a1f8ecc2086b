package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netgraph/pkg/cache"
	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/observability"
)

const keyTypeArtifact = "artifact"

// Runner executes the pipeline with artifact caching and observability
// hooks. It keeps no state besides its cache and logger, so one Runner may
// serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer
// selects cache.DefaultKeyer and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs resolve → build → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	layers, source, err := Resolve(opts)
	if err != nil {
		return nil, err
	}
	hash, err := cache.HashJSON(layers)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash layers")
	}

	result := &Result{
		Source:     source,
		Layers:     layers,
		LayersHash: hash,
	}
	result.CacheInfo.Cacheable = opts.Cacheable()

	// Stage 1: Build
	buildStart := time.Now()
	topo, err := r.Build(ctx, layers, opts)
	if err != nil {
		return nil, err
	}
	result.Topology = topo
	result.Stats.LayerCount = len(layers)
	result.Stats.NodeCount = topo.NodeCount()
	result.Stats.EdgeCount = topo.EdgeCount()
	result.Stats.BuildTime = time.Since(buildStart)

	r.Logger.Info("built topology",
		"source", source,
		"layers", len(layers),
		"nodes", topo.NodeCount(),
		"edges", topo.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, topo, hash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"zoom", opts.Zoom,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build constructs a topology and reports it to the pipeline hooks.
func (r *Runner) Build(ctx context.Context, layers []network.LayerSpec, opts Options) (*network.Topology, error) {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(layers))

	start := time.Now()
	topo, err := Build(layers, opts)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnBuildComplete(ctx, topo.NodeCount(), topo.EdgeCount(), time.Since(start), nil)
	return topo, nil
}

// RenderWithCacheInfo renders every requested format and reports whether
// all of them came from the cache. layersHash identifies the layer list in
// cache keys. Unseeded runs bypass the cache entirely.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, topo *network.Topology, layersHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	useCache := opts.Cacheable() && layersHash != ""
	if useCache && !opts.Refresh {
		if artifacts, ok := r.lookupArtifacts(ctx, layersHash, opts); ok {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := Render(ctx, topo, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if useCache {
		r.storeArtifacts(ctx, layersHash, opts, artifacts)
	}
	return artifacts, false, nil
}

// Render is RenderWithCacheInfo without the hit flag.
func (r *Runner) Render(ctx context.Context, topo *network.Topology, layersHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, topo, layersHash, opts)
	return artifacts, err
}

// lookupArtifacts returns the cached artifacts when every format is present.
func (r *Runner) lookupArtifacts(ctx context.Context, layersHash string, opts Options) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layersHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, keyTypeArtifact)
			return nil, false
		}
		hooks.OnCacheHit(ctx, keyTypeArtifact)
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) storeArtifacts(ctx context.Context, layersHash string, opts Options, artifacts map[string][]byte) {
	hooks := observability.Cache()
	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(layersHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
