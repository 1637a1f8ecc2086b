package pipeline

import (
	"math"
	"testing"

	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/presets"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"graphviz", false},
		{"invalid", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("ValidateFormats() error: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "bmp"}); err == nil {
		t.Error("ValidateFormats() accepted bmp")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("ValidateFormats(nil) error: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"default", false},
		{"dark", false},
		{"", false},
		{"neon", true},
	}
	for _, tt := range tests {
		if err := ValidateStyle(tt.style); (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestFileExtension(t *testing.T) {
	if got := FileExtension(FormatGraphviz); got != "gv.svg" {
		t.Errorf("FileExtension(graphviz) = %q, want gv.svg", got)
	}
	if got := FileExtension(FormatPNG); got != "png" {
		t.Errorf("FileExtension(png) = %q, want png", got)
	}
}

func TestSetBuildDefaults(t *testing.T) {
	opts := Options{}
	opts.SetBuildDefaults()

	if opts.Preset != presets.Default {
		t.Errorf("Preset = %q, want %q", opts.Preset, presets.Default)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("surface = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.MaxNodes != DefaultMaxNodes {
		t.Errorf("MaxNodes = %d, want %d", opts.MaxNodes, DefaultMaxNodes)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	withLayers := Options{Layers: []network.LayerSpec{network.MustLayerSpec("a", "A", 1)}}
	withLayers.SetBuildDefaults()
	if withLayers.Preset != "" {
		t.Errorf("Preset = %q with explicit layers, want empty", withLayers.Preset)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if opts.Zoom != DefaultZoom {
		t.Errorf("Zoom = %v, want %v", opts.Zoom, DefaultZoom)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style = %q, want %q", opts.Style, DefaultStyle)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
}

func TestValidateForRenderZoom(t *testing.T) {
	tests := []struct {
		zoom    float64
		want    float64
		wantErr bool
	}{
		{1.5, 1.5, false},
		{3, 2, false},
		{0.1, 0.5, false},
		{-1, 0, true},
		{math.NaN(), 0, true},
		{math.Inf(1), 0, true},
	}
	for _, tt := range tests {
		opts := Options{Zoom: tt.zoom}
		err := opts.ValidateForRender()
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateForRender(zoom=%v) error = %v, wantErr %v", tt.zoom, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, errors.ErrCodeInvalidZoom) {
				t.Errorf("ValidateForRender(zoom=%v) code = %s, want INVALID_ZOOM", tt.zoom, errors.GetCode(err))
			}
			continue
		}
		if opts.Zoom != tt.want {
			t.Errorf("ValidateForRender(zoom=%v) Zoom = %v, want %v", tt.zoom, opts.Zoom, tt.want)
		}
	}
}

func TestValidateForBuild(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative width", Options{Width: -1}, errors.ErrCodeInvalidSurface},
		{"nan height", Options{Height: math.NaN()}, errors.ErrCodeInvalidSurface},
		{"negative max nodes", Options{MaxNodes: -2}, errors.ErrCodeInvalidInput},
		{"max nodes over limit", Options{MaxNodes: MaxNodesLimit + 1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateForBuild(); !errors.Is(err, tt.code) {
				t.Errorf("ValidateForBuild() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Zoom: 1.2, Style: "dark"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	first := opts

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Zoom != first.Zoom || opts.Style != first.Style || opts.Width != first.Width {
		t.Error("ValidateAndSetDefaults() is not idempotent")
	}
}

func TestCacheableAndWeights(t *testing.T) {
	opts := Options{}
	if opts.Cacheable() {
		t.Error("unseeded options are cacheable")
	}

	opts.Seed = 9
	if !opts.Cacheable() {
		t.Error("seeded options are not cacheable")
	}

	a, b := opts.Weights().Stream(), opts.Weights().Stream()
	for i := range 5 {
		if x, y := a(), b(); x != y {
			t.Fatalf("draw %d: seeded weights differ: %v != %v", i, x, y)
		}
	}
}

func TestArtifactKeyOptsScaleOnlyForPNG(t *testing.T) {
	opts := Options{Scale: 3}
	if k := opts.ArtifactKeyOpts(FormatSVG); k.Scale != 0 {
		t.Errorf("svg key Scale = %v, want 0", k.Scale)
	}
	if k := opts.ArtifactKeyOpts(FormatPNG); k.Scale != 3 {
		t.Errorf("png key Scale = %v, want 3", k.Scale)
	}
}

func TestValidateMaxNodes(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{DefaultMaxNodes, false},
		{MaxNodesLimit, false},
		{MaxNodesLimit + 1, true},
		{100000, true},
		{-1, true},
	}
	for _, tt := range tests {
		err := ValidateMaxNodes(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMaxNodes(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.IsValidation(err) {
			t.Errorf("ValidateMaxNodes(%d) code = %s, want a validation code", tt.n, errors.GetCode(err))
		}
	}
}

func TestResolveRejectsMaxNodes(t *testing.T) {
	wide := []network.LayerSpec{network.MustLayerSpec("a", "A", 1500), network.MustLayerSpec("b", "B", 1500)}
	for _, n := range []int{-1, MaxNodesLimit + 1} {
		layers, _, err := Resolve(Options{Layers: wide, MaxNodes: n})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Resolve(max_nodes=%d) error = %v, want INVALID_INPUT", n, err)
		}
		if layers != nil {
			t.Errorf("Resolve(max_nodes=%d) returned %d layers", n, len(layers))
		}
	}
}

func TestResolve(t *testing.T) {
	layers, source, err := Resolve(Options{Preset: "mnist-mlp", MaxNodes: 8})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if source != "mnist-mlp" {
		t.Errorf("source = %q, want mnist-mlp", source)
	}
	for _, l := range layers {
		if l.NodeCount > 8 {
			t.Errorf("layer %s has %d nodes, want at most 8", l.ID, l.NodeCount)
		}
	}
	if layers[0].TrueUnits() != 784 {
		t.Errorf("TrueUnits() = %d, want 784", layers[0].TrueUnits())
	}

	explicit := []network.LayerSpec{network.MustLayerSpec("a", "A", 100), network.MustLayerSpec("b", "B", 2)}
	layers, source, err = Resolve(Options{Preset: "cnn", Layers: explicit})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if source != SourceLayers || layers[0].NodeCount != DefaultMaxNodes {
		t.Errorf("Resolve() = %s %+v", source, layers[0])
	}
	if explicit[0].NodeCount != 100 {
		t.Error("Resolve() modified the caller's layers")
	}

	if _, _, err := Resolve(Options{Preset: "nope"}); !errors.Is(err, errors.ErrCodePresetNotFound) {
		t.Errorf("Resolve(nope) error = %v, want PRESET_NOT_FOUND", err)
	}
	bad := []network.LayerSpec{{ID: "a", NodeCount: 0}}
	if _, _, err := Resolve(Options{Layers: bad}); !network.IsInvalidTopology(err) {
		t.Errorf("Resolve(bad) error = %v, want INVALID_TOPOLOGY", err)
	}
}
