package draw

import (
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/render/styles"
)

// Geometry shared by every style.
const (
	NodeRadius    = 6.0
	EdgeOpacity   = 0.2
	MinEdgeWeight = 0.1
	EdgeWidthMul  = 0.5
	LabelOffset   = 20.0
	LabelSize     = 12.0
)

// Option configures Plan.
type Option func(*planner)

type planner struct {
	style styles.Style
}

// WithStyle selects the colour palette. The default is styles.Default.
func WithStyle(s styles.Style) Option {
	return func(p *planner) { p.style = s }
}

// EdgeWidth returns the stroke width for an edge of weight w.
func EdgeWidth(w float64) float64 {
	return max(MinEdgeWeight, w) * EdgeWidthMul
}

// Plan produces the full command list for one frame: the surface is
// cleared, then edges, nodes and layer labels are drawn inside a group
// scaled by zoom around the surface centre. The zoom must be positive and
// finite; callers driving a slider clamp it with ClampZoom first.
func Plan(topo *network.Topology, zoom float64, opts ...Option) ([]Command, error) {
	if err := ValidateZoom(zoom); err != nil {
		return nil, err
	}

	p := planner{style: styles.Default()}
	for _, opt := range opts {
		opt(&p)
	}

	cmds := make([]Command, 0, topo.EdgeCount()+topo.NodeCount()+len(topo.Layers)+3)
	cmds = append(cmds,
		Clear{Width: topo.Width, Height: topo.Height, Background: p.style.Background},
		BeginGroup{Scale: zoom, OriginX: topo.Width / 2, OriginY: topo.Height / 2},
	)

	for _, e := range topo.Edges {
		src, _ := topo.Node(e.SourceID)
		dst, _ := topo.Node(e.TargetID)
		cmds = append(cmds, Line{
			SourceID: e.SourceID,
			TargetID: e.TargetID,
			X1:       src.X,
			Y1:       src.Y,
			X2:       dst.X,
			Y2:       dst.Y,
			Width:    EdgeWidth(e.Weight),
			Opacity:  EdgeOpacity,
			Color:    p.style.Edge,
		})
	}

	for _, n := range topo.Nodes {
		role := topo.Role(n)
		cmds = append(cmds, Circle{
			NodeID: n.ID,
			Role:   role.String(),
			CX:     n.X,
			CY:     n.Y,
			R:      NodeRadius,
			Fill:   p.style.NodeFill(role),
		})
	}

	for i, l := range topo.Layers {
		cmds = append(cmds, Text{
			LayerID: l.ID,
			X:       topo.LayerX(i),
			Y:       topo.Height - LabelOffset,
			Content: l.Label(),
			Size:    LabelSize,
			Bold:    true,
			Color:   p.style.Label,
		})
	}

	return append(cmds, EndGroup{}), nil
}
