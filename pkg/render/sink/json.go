package sink

import (
	"encoding/json"

	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/render/draw"
	"github.com/matzehuels/netgraph/pkg/render/styles"
)

// JSONOption configures RenderJSON.
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	zoom  float64
	style styles.Style
	seed  uint64
}

// WithJSONZoom records the zoom factor the view is drawn at.
func WithJSONZoom(z float64) JSONOption { return func(r *jsonRenderer) { r.zoom = z } }

// WithJSONStyle resolves node colours with s instead of the default palette.
func WithJSONStyle(s styles.Style) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONSeed records the weight seed so the frame can be reproduced.
func WithJSONSeed(seed uint64) JSONOption { return func(r *jsonRenderer) { r.seed = seed } }

// Frame is the JSON document written by RenderJSON.
type Frame struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Zoom   float64      `json:"zoom"`
	Style  string       `json:"style"`
	Seed   uint64       `json:"seed,omitempty"`
	Layers []FrameLayer `json:"layers"`
	Nodes  []FrameNode  `json:"nodes"`
	Edges  []FrameEdge  `json:"edges"`
}

// FrameLayer is one layer column of a Frame.
type FrameLayer struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Role  string  `json:"role"`
	Nodes int     `json:"nodes"`
	Units int     `json:"units"`
	X     float64 `json:"x"`
}

// FrameNode is one positioned node of a Frame.
type FrameNode struct {
	ID    string  `json:"id"`
	Layer string  `json:"layer"`
	Role  string  `json:"role"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r"`
	Fill  string  `json:"fill"`
}

// FrameEdge is one edge of a Frame with its stroke width.
type FrameEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
	Width  float64 `json:"width"`
}

// RenderJSON exports a topology with its logical coordinates and resolved
// colours.
func RenderJSON(topo *network.Topology, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{zoom: draw.DefaultZoom, style: styles.Default()}
	for _, opt := range opts {
		opt(&r)
	}

	out := Frame{
		Width:  topo.Width,
		Height: topo.Height,
		Zoom:   r.zoom,
		Style:  r.style.Name,
		Seed:   r.seed,
		Layers: make([]FrameLayer, len(topo.Layers)),
		Nodes:  make([]FrameNode, len(topo.Nodes)),
		Edges:  make([]FrameEdge, len(topo.Edges)),
	}

	for i, l := range topo.Layers {
		out.Layers[i] = FrameLayer{
			ID:    l.ID,
			Name:  l.Label(),
			Role:  network.RoleOf(i, len(topo.Layers)).String(),
			Nodes: l.NodeCount,
			Units: l.TrueUnits(),
			X:     topo.LayerX(i),
		}
	}
	for i, n := range topo.Nodes {
		role := topo.Role(n)
		out.Nodes[i] = FrameNode{
			ID:    n.ID,
			Layer: n.LayerID,
			Role:  role.String(),
			X:     n.X,
			Y:     n.Y,
			R:     draw.NodeRadius,
			Fill:  r.style.NodeFill(role),
		}
	}
	for i, e := range topo.Edges {
		out.Edges[i] = FrameEdge{
			Source: e.SourceID,
			Target: e.TargetID,
			Weight: e.Weight,
			Width:  draw.EdgeWidth(e.Weight),
		}
	}

	return json.MarshalIndent(out, "", "  ")
}
