// Package draw turns a laid-out network into an ordered list of drawing
// commands.
//
// [Plan] is pure: it reads a [network.Topology] and a zoom factor and
// returns commands without touching any output device. Executors in the
// sink package (SVG, terminal canvas, ...) replay the commands in order.
//
// Every plan has the same shape:
//
//	Clear
//	BeginGroup{Scale: zoom, origin at the surface centre}
//	  Line ...    one per edge
//	  Circle ...  one per node
//	  Text ...    one per layer
//	EndGroup
//
// Coordinates inside the group are logical surface coordinates. The zoom
// is carried only by the group transform, so changing it never moves a
// node in logical space.
package draw

// Command is one drawing instruction.
type Command interface {
	command()
}

// Clear wipes the surface before a full redraw.
type Clear struct {
	Width      float64
	Height     float64
	Background string
}

// BeginGroup starts a group scaled by Scale around (OriginX, OriginY).
type BeginGroup struct {
	Scale   float64
	OriginX float64
	OriginY float64
}

// EndGroup closes the innermost group.
type EndGroup struct{}

// Line is a straight edge between two nodes.
type Line struct {
	SourceID string
	TargetID string
	X1, Y1   float64
	X2, Y2   float64
	Width    float64
	Opacity  float64
	Color    string
}

// Circle is a node marker.
type Circle struct {
	NodeID string
	Role   string
	CX, CY float64
	R      float64
	Fill   string
}

// Text is a layer label anchored at its horizontal centre.
type Text struct {
	LayerID string
	X, Y    float64
	Content string
	Size    float64
	Bold    bool
	Color   string
}

func (Clear) command()      {}
func (BeginGroup) command() {}
func (EndGroup) command()   {}
func (Line) command()       {}
func (Circle) command()     {}
func (Text) command()       {}

// Apply maps a logical point through the group transform.
func (g BeginGroup) Apply(x, y float64) (float64, float64) {
	return g.OriginX + (x-g.OriginX)*g.Scale, g.OriginY + (y-g.OriginY)*g.Scale
}

// Matrix returns the affine transform of the group as the SVG matrix
// (a, b, c, d, e, f): translate(origin)·scale(s)·translate(-origin).
func (g BeginGroup) Matrix() [6]float64 {
	return [6]float64{g.Scale, 0, 0, g.Scale, g.OriginX * (1 - g.Scale), g.OriginY * (1 - g.Scale)}
}
