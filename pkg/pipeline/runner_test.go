package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netgraph/pkg/cache"
	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/observability"
	"github.com/matzehuels/netgraph/pkg/render"
)

func quietRunner(c cache.Cache) *Runner {
	var buf bytes.Buffer
	return NewRunner(c, nil, log.New(&buf))
}

func TestExecuteDefaults(t *testing.T) {
	r := quietRunner(nil)

	result, err := r.Execute(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Source != "dashboard" {
		t.Errorf("Source = %q, want dashboard", result.Source)
	}
	if result.Stats.LayerCount != 5 || result.Stats.NodeCount != 38 || result.Stats.EdgeCount != 240 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if result.Topology.Width != DefaultWidth || result.Topology.Height != DefaultHeight {
		t.Errorf("surface = %vx%v", result.Topology.Width, result.Topology.Height)
	}
	if len(result.LayersHash) != 64 {
		t.Errorf("LayersHash = %q", result.LayersHash)
	}
	svg := string(result.Artifacts[FormatSVG])
	if !strings.HasPrefix(svg, "<svg ") || strings.Count(svg, "<circle") != 38 {
		t.Errorf("svg artifact is not a 38 node frame")
	}
	if result.CacheInfo.Cacheable || result.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want uncached", result.CacheInfo)
	}
}

func TestExecuteFormats(t *testing.T) {
	r := quietRunner(nil)
	opts := Options{
		Layers:  []network.LayerSpec{network.MustLayerSpec("in", "In", 4), network.MustLayerSpec("out", "Out", 2)},
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
		Zoom:    1.5,
		Seed:    3,
		Title:   "tiny",
	}

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(result.Artifacts) != 3 {
		t.Fatalf("len(Artifacts) = %d, want 3", len(result.Artifacts))
	}
	if !bytes.Contains(result.Artifacts[FormatSVG], []byte("<title>tiny</title>")) {
		t.Error("svg missing title")
	}
	if !bytes.Contains(result.Artifacts[FormatSVG], []byte("scale(1.5000)")) {
		t.Error("svg missing zoom transform")
	}
	if !bytes.Contains(result.Artifacts[FormatJSON], []byte(`"zoom": 1.5`)) {
		t.Error("json missing zoom")
	}
	if !bytes.Contains(result.Artifacts[FormatDOT], []byte("graph G {")) {
		t.Error("dot artifact is not a graph")
	}
}

func TestExecuteCachesSeededRuns(t *testing.T) {
	c := cache.NewMemoryCache(0)
	r := quietRunner(c)
	ctx := context.Background()
	opts := Options{Preset: "mlp", Seed: 42, Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run hit the cache")
	}
	if c.Len() != 2 {
		t.Errorf("cache entries = %d, want 2", c.Len())
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run missed the cache")
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	refreshed := opts
	refreshed.Refresh = true
	third, err := r.Execute(ctx, refreshed)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("Refresh run hit the cache")
	}

	zoomed := opts
	zoomed.Zoom = 2
	fourth, _ := r.Execute(ctx, zoomed)
	if fourth.CacheInfo.RenderHit {
		t.Error("different zoom hit the cache")
	}
}

func TestExecuteSkipsCacheWithoutSeed(t *testing.T) {
	c := cache.NewMemoryCache(0)
	r := quietRunner(c)

	for range 2 {
		result, err := r.Execute(context.Background(), Options{Preset: "rnn"})
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		if result.CacheInfo.RenderHit {
			t.Error("unseeded run hit the cache")
		}
	}
	if c.Len() != 0 {
		t.Errorf("cache entries = %d, want 0", c.Len())
	}
}

func TestExecuteErrors(t *testing.T) {
	r := quietRunner(nil)
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown preset", Options{Preset: "vgg"}, errors.ErrCodePresetNotFound},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad style", Options{Style: "neon"}, errors.ErrCodeInvalidStyle},
		{"bad zoom", Options{Zoom: -1}, errors.ErrCodeInvalidZoom},
		{"bad surface", Options{Width: -5}, errors.ErrCodeInvalidSurface},
		{"empty layer", Options{Layers: []network.LayerSpec{{ID: "a"}}}, errors.ErrCodeInvalidTopology},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecutePNG(t *testing.T) {
	if !render.ConverterAvailable() {
		t.Skip("rsvg-convert not installed")
	}
	result, err := quietRunner(nil).Execute(context.Background(), Options{Formats: []string{FormatPNG}, Scale: 1})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !bytes.HasPrefix(result.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact has no PNG signature")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu                   sync.Mutex
	builds, renders      int
	hits, misses, sets   int
	lastNodes, lastEdges int
}

func (h *recordingHooks) OnBuildComplete(_ context.Context, nodes, edges int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.builds++
	h.lastNodes, h.lastEdges = nodes, edges
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders++
}

func (h *recordingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *recordingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *recordingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets++
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	r := quietRunner(cache.NewMemoryCache(0))
	opts := Options{Preset: "dashboard", Seed: 1}
	for range 2 {
		if _, err := r.Execute(context.Background(), opts); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
	}

	if hooks.builds != 2 {
		t.Errorf("builds = %d, want 2", hooks.builds)
	}
	if hooks.lastNodes != 38 || hooks.lastEdges != 240 {
		t.Errorf("last build = %d nodes, %d edges", hooks.lastNodes, hooks.lastEdges)
	}
	if hooks.renders != 1 {
		t.Errorf("renders = %d, want 1", hooks.renders)
	}
	if hooks.misses != 1 || hooks.sets != 1 || hooks.hits != 1 {
		t.Errorf("cache events = %d miss, %d set, %d hit; want 1 each", hooks.misses, hooks.sets, hooks.hits)
	}
}

func TestRunnerConcurrentUse(t *testing.T) {
	r := quietRunner(cache.NewMemoryCache(0))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			opts := Options{Preset: "cnn", Seed: uint64(i%2 + 1), Zoom: 0.5 + 0.1*float64(i)}
			if _, err := r.Execute(context.Background(), opts); err != nil {
				t.Errorf("Execute() error: %v", err)
			}
		}()
	}
	wg.Wait()
}
