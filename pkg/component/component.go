// Package component drives a network view mounted on a drawing surface.
//
// A Component owns a validated layer list and the view parameters (zoom and
// surface size). Every trigger runs the whole pipeline again (build, layout,
// plan) and hands the resulting command list to the surface:
//
//	c, err := component.New(layers, component.WithLogger(logger))
//	if err != nil {
//	    return err // INVALID_TOPOLOGY, before anything is drawn
//	}
//	c.SetZoom(ctx, 1.5)       // unmounted: remembered, nothing drawn
//	c.Mount(ctx, surface)     // draws at zoom 1.5
//	c.Resize(ctx, 1024, 768)  // draws again
//
// Triggers may arrive from several goroutines. Each one supersedes the
// render in flight: its context is cancelled and its commands are dropped
// before they reach the surface, so the surface always ends on the frame of
// the last trigger.
package component

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/observability"
	"github.com/matzehuels/netgraph/pkg/render/draw"
	"github.com/matzehuels/netgraph/pkg/render/styles"
)

// Trigger names reported to the component hooks.
const (
	TriggerMount  = "mount"
	TriggerZoom   = "zoom"
	TriggerResize = "resize"
)

// State is the mount state of a Component.
type State int

const (
	Unmounted State = iota
	Mounted
)

func (s State) String() string {
	if s == Mounted {
		return "mounted"
	}
	return "unmounted"
}

// Surface is something a frame can be drawn on. Size reports the logical
// drawing area. Draw receives a complete frame starting with a Clear
// command; surfaces that draw asynchronously should give up when ctx is
// cancelled.
type Surface interface {
	Size() (w, h float64)
	Draw(ctx context.Context, cmds []draw.Command) error
}

// Frame is the last frame a component handed to its surface.
type Frame struct {
	Generation uint64
	Trigger    string
	Zoom       float64
	Topology   *network.Topology
	Commands   []draw.Command
	DrawnAt    time.Time
}

// Option configures a Component.
type Option func(*Component)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Component) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStyle sets the colour palette.
func WithStyle(s styles.Style) Option {
	return func(c *Component) { c.style = s }
}

// WithWeights sets the edge weight source. The default re-samples weights
// on every build.
func WithWeights(w network.WeightSource) Option {
	return func(c *Component) {
		if w != nil {
			c.weights = w
		}
	}
}

// WithZoom sets the initial zoom. Invalid values are reported by New.
func WithZoom(z float64) Option {
	return func(c *Component) { c.zoom = z }
}

// Component is a network view bound to at most one surface at a time.
type Component struct {
	id      string
	layers  []network.LayerSpec
	logger  *log.Logger
	style   styles.Style
	weights network.WeightSource

	mu      sync.Mutex
	state   State
	surface Surface
	zoom    float64
	width   float64
	height  float64
	gen     uint64
	cancel  context.CancelFunc
	frame   *Frame

	// drawMu serialises hand-off so an older frame can never land on the
	// surface after a newer one.
	drawMu sync.Mutex
}

// New validates layers and returns an unmounted component.
func New(layers []network.LayerSpec, opts ...Option) (*Component, error) {
	if err := network.ValidateLayers(layers); err != nil {
		return nil, err
	}

	c := &Component{
		id:      uuid.NewString(),
		layers:  make([]network.LayerSpec, len(layers)),
		logger:  log.New(io.Discard),
		style:   styles.Default(),
		weights: network.RandomWeights(),
		zoom:    draw.DefaultZoom,
	}
	copy(c.layers, layers)
	for _, opt := range opts {
		opt(c)
	}
	if err := draw.ValidateZoom(c.zoom); err != nil {
		return nil, err
	}
	c.zoom = draw.ClampZoom(c.zoom)
	c.logger = c.logger.With("component", c.id[:8])
	return c, nil
}

// ID returns the instance id.
func (c *Component) ID() string { return c.id }

// Layers returns a copy of the layer list.
func (c *Component) Layers() []network.LayerSpec {
	out := make([]network.LayerSpec, len(c.layers))
	copy(out, c.layers)
	return out
}

// State returns the current mount state.
func (c *Component) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Zoom returns the current zoom factor.
func (c *Component) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

// Size returns the surface size the next frame will be drawn at. Without
// an explicit Resize it follows the mounted surface.
func (c *Component) Size() (w, h float64) {
	c.mu.Lock()
	w, h, s := c.width, c.height, c.surface
	c.mu.Unlock()
	if (w == 0 || h == 0) && s != nil {
		return s.Size()
	}
	return w, h
}

// Frame returns the last frame drawn, if any.
func (c *Component) Frame() (Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frame == nil {
		return Frame{}, false
	}
	return *c.frame, true
}

// =============================================================================
// Triggers
// =============================================================================

// Mount binds the component to surface and draws. The first call moves the
// component to Mounted; later calls only swap the surface.
func (c *Component) Mount(ctx context.Context, surface Surface) error {
	if surface == nil {
		return errors.New(errors.ErrCodeInvalidInput, "surface is nil")
	}

	c.mu.Lock()
	first := c.state == Unmounted
	c.state = Mounted
	c.surface = surface
	c.mu.Unlock()

	if first {
		c.logger.Debug("mounted")
	}
	return c.render(ctx, TriggerMount)
}

// Unmount detaches the surface and cancels the render in flight. Triggers
// after Unmount are remembered but draw nothing until the next Mount.
func (c *Component) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.state = Unmounted
	c.surface = nil
	c.logger.Debug("unmounted")
}

// SetZoom sets the zoom factor and redraws. Valid factors outside the
// slider range are clamped; non-positive or non-finite ones are rejected
// with INVALID_ZOOM.
func (c *Component) SetZoom(ctx context.Context, z float64) error {
	if err := draw.ValidateZoom(z); err != nil {
		return err
	}
	c.mu.Lock()
	c.zoom = draw.ClampZoom(z)
	c.mu.Unlock()
	return c.render(ctx, TriggerZoom)
}

// StepZoom moves the zoom by steps slider notches and redraws.
func (c *Component) StepZoom(ctx context.Context, steps int) error {
	c.mu.Lock()
	c.zoom = draw.StepZoom(c.zoom, steps)
	c.mu.Unlock()
	return c.render(ctx, TriggerZoom)
}

// Resize overrides the surface size and redraws.
func (c *Component) Resize(ctx context.Context, w, h float64) error {
	if err := network.ValidateSurface(w, h); err != nil {
		return err
	}
	c.mu.Lock()
	c.width, c.height = w, h
	c.mu.Unlock()
	return c.render(ctx, TriggerResize)
}

// =============================================================================
// Rendering
// =============================================================================

// render runs build → plan → draw for one trigger. It returns nil without
// drawing when the component is unmounted or when a newer trigger
// supersedes this one.
func (c *Component) render(ctx context.Context, trigger string) error {
	hooks := observability.Component()
	hooks.OnTrigger(ctx, trigger)

	c.mu.Lock()
	if c.state != Mounted {
		c.mu.Unlock()
		c.logger.Debug("surface unavailable, skipping draw", "trigger", trigger)
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	surface, zoom, w, h := c.surface, c.zoom, c.width, c.height
	c.mu.Unlock()
	defer c.release(gen, cancel)

	if w == 0 || h == 0 {
		w, h = surface.Size()
	}

	start := time.Now()
	topo, err := network.Build(c.layers, w, h, network.WithWeights(c.weights))
	if err != nil {
		hooks.OnDraw(ctx, 0, time.Since(start), err)
		return err
	}
	cmds, err := draw.Plan(topo, zoom, draw.WithStyle(c.style))
	if err != nil {
		hooks.OnDraw(ctx, 0, time.Since(start), err)
		return err
	}

	c.drawMu.Lock()
	defer c.drawMu.Unlock()

	if !c.current(gen) || ctx.Err() != nil {
		c.superseded(ctx, gen)
		return nil
	}
	if err := surface.Draw(ctx, cmds); err != nil {
		if !c.current(gen) || ctx.Err() != nil {
			c.superseded(ctx, gen)
			return nil
		}
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeInternal, err, "draw frame")
		}
		hooks.OnDraw(ctx, len(cmds), time.Since(start), err)
		return err
	}

	c.mu.Lock()
	c.frame = &Frame{
		Generation: gen,
		Trigger:    trigger,
		Zoom:       zoom,
		Topology:   topo,
		Commands:   cmds,
		DrawnAt:    time.Now(),
	}
	c.mu.Unlock()

	hooks.OnDraw(ctx, len(cmds), time.Since(start), nil)
	c.logger.Debug("drew frame",
		"trigger", trigger,
		"generation", gen,
		"zoom", zoom,
		"nodes", topo.NodeCount(),
		"duration", time.Since(start))
	return nil
}

func (c *Component) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen
}

func (c *Component) superseded(ctx context.Context, gen uint64) {
	observability.Component().OnSuperseded(ctx)
	c.logger.Debug("dropped superseded frame", "generation", gen)
}

// release cancels the render context and forgets it if no newer trigger
// replaced it.
func (c *Component) release(gen uint64, cancel context.CancelFunc) {
	cancel()
	c.mu.Lock()
	if c.gen == gen {
		c.cancel = nil
	}
	c.mu.Unlock()
}
