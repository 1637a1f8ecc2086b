// Package pipeline runs the resolve → build → render pipeline shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Resolve: pick the layer list from Options.Layers or a preset and cap
//     drawn nodes per layer.
//  2. Build: construct the topology (nodes, edges, positions) on the
//     requested surface.
//  3. Render: plan one frame at the requested zoom and execute it into
//     every requested format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Preset:  "dashboard",
//	    Zoom:    1.5,
//	    Formats: []string{"svg", "json"},
//	    Seed:    42,
//	})
//	svg := result.Artifacts["svg"]
//
// # Caching
//
// Edge weights are drawn at random on every build unless Options.Seed is
// set. Only seeded runs are reproducible, so only seeded runs read or
// write the artifact cache.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netgraph/pkg/cache"
	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/presets"
	"github.com/matzehuels/netgraph/pkg/render/draw"
	"github.com/matzehuels/netgraph/pkg/render/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth and DefaultHeight are the dashboard card's surface.
	DefaultWidth  = 800.0
	DefaultHeight = 600.0

	// DefaultMaxNodes caps drawn nodes per layer. Larger layers keep their
	// true width in LayerSpec.Units.
	DefaultMaxNodes = 64

	// MaxNodesLimit is the largest accepted per-layer cap. Two adjacent
	// layers at the limit draw 65,536 edges.
	MaxNodesLimit = 256

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	DefaultZoom  = draw.DefaultZoom
	DefaultStyle = styles.NameDefault
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatJSON:     true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatDOT:      true,
	FormatGraphviz: true,
}

// FileExtension returns the file extension written for format.
func FileExtension(format string) string {
	if format == FormatGraphviz {
		return "gv.svg"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options holds every input of a pipeline run. It is the JSON body of the
// server's render endpoint.
type Options struct {
	// Resolve options. Layers wins over Preset; with neither the default
	// preset is used.
	Preset   string              `json:"preset,omitempty"`
	Layers   []network.LayerSpec `json:"layers,omitempty"`
	MaxNodes int                 `json:"max_nodes,omitempty"`

	// Build options. Seed 0 draws fresh random weights.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Seed   uint64  `json:"seed,omitempty"`

	// Render options
	Zoom        float64  `json:"zoom,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Title       string   `json:"title,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Source names where the layers came from: a preset name or "layers".
	Source string

	// Layers is the resolved, capped layer list.
	Layers []network.LayerSpec

	// LayersHash is the content hash of Layers.
	LayersHash string

	Topology *network.Topology

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayerCount int
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache use.
type CacheInfo struct {
	Cacheable bool // Whether the run was seeded
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, png, pdf, dot, graphviz)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMaxNodes checks a per-layer cap. Zero means the default; below
// zero or above MaxNodesLimit is rejected.
func ValidateMaxNodes(n int) error {
	if n < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_nodes must not be negative")
	}
	if n > MaxNodesLimit {
		return errors.New(errors.ErrCodeInvalidInput, "max_nodes must be at most %d, got %d", MaxNodesLimit, n)
	}
	return nil
}

// ValidateStyle checks that a style is registered.
func ValidateStyle(style string) error {
	_, err := styles.Lookup(style)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies every default and validates the options
// of a full run. Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetBuildDefaults fills the resolve and build defaults.
func (o *Options) SetBuildDefaults() {
	if len(o.Layers) == 0 && o.Preset == "" {
		o.Preset = presets.Default
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForBuild applies build defaults and checks the surface.
func (o *Options) ValidateForBuild() error {
	o.SetBuildDefaults()
	if err := ValidateMaxNodes(o.MaxNodes); err != nil {
		return err
	}
	return network.ValidateSurface(o.Width, o.Height)
}

// SetRenderDefaults fills the render defaults.
func (o *Options) SetRenderDefaults() {
	if o.Zoom == 0 {
		o.Zoom = DefaultZoom
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender applies render defaults and validates them. A valid
// zoom outside the slider range is clamped onto it.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := draw.ValidateZoom(o.Zoom); err != nil {
		return err
	}
	o.Zoom = draw.ClampZoom(o.Zoom)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive")
	}
	return ValidateStyle(o.Style)
}

// Cacheable reports whether the run produces reproducible artifacts.
func (o *Options) Cacheable() bool {
	return o.Seed != 0
}

// Weights returns the weight source for the build stage.
func (o *Options) Weights() network.WeightSource {
	if o.Seed == 0 {
		return network.RandomWeights()
	}
	return network.SeededWeights(o.Seed)
}

// ArtifactKeyOpts returns the cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:      format,
		Width:       o.Width,
		Height:      o.Height,
		Seed:        o.Seed,
		Zoom:        o.Zoom,
		Style:       o.Style,
		MaxNodes:    o.MaxNodes,
		Title:       o.Title,
		Interactive: o.Interactive,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
