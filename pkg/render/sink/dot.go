package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/render/draw"
)

// ToDOT replays a draw plan as an undirected Graphviz graph. Every node and
// label is pinned with pos="x,y!" in points, after applying the zoom group,
// so neato reproduces the planned picture instead of computing its own
// layout. Graphviz's y axis points up, so y is flipped against the surface
// height.
func ToDOT(cmds []draw.Command) string {
	var (
		buf    bytes.Buffer
		height float64
		group  = draw.BeginGroup{Scale: 1}
		edges  []dotEdge
	)

	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")

	for _, c := range cmds {
		switch c := c.(type) {
		case draw.Clear:
			height = c.Height
			bg := c.Background
			if bg == "" {
				bg = "transparent"
			}
			fmt.Fprintf(&buf, "  bgcolor=%q;\n", bg)
			fmt.Fprintf(&buf, "  bb=\"0,0,%.2f,%.2f\";\n", c.Width, c.Height)
			buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, label=\"\", penwidth=0];\n\n")
		case draw.BeginGroup:
			group = c
		case draw.EndGroup:
			group = draw.BeginGroup{Scale: 1}
		case draw.Line:
			edges = append(edges, dotEdge{
				source: c.SourceID,
				target: c.TargetID,
				color:  withAlpha(c.Color, c.Opacity),
				width:  c.Width * group.Scale,
			})
		case draw.Circle:
			x, y := group.Apply(c.CX, c.CY)
			size := 2 * c.R * group.Scale / 72
			fmt.Fprintf(&buf, "  %q [pos=\"%.2f,%.2f!\", width=%.4f, height=%.4f, fillcolor=%q, class=%q];\n",
				c.NodeID, x, height-y, size, size, c.Fill, c.Role)
		case draw.Text:
			x, y := group.Apply(c.X, c.Y)
			font := "Helvetica"
			if c.Bold {
				font = "Helvetica-Bold"
			}
			fmt.Fprintf(&buf, "  %q [shape=plaintext, style=\"\", fixedsize=false, pos=\"%.2f,%.2f!\", label=%q, fontsize=%.1f, fontname=%q, fontcolor=%q];\n",
				"label-"+c.LayerID, x, height-y, c.Content, c.Size*group.Scale, font, c.Color)
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -- %q [color=%q, penwidth=%.3f];\n", e.source, e.target, e.color, e.width)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotEdge is a Line resolved against the group it was drawn in. Edges are
// written after all nodes so every endpoint carries its pinned position.
type dotEdge struct {
	source, target string
	color          string
	width          float64
}

// withAlpha appends an alpha channel to a #rgb or #rrggbb colour.
func withAlpha(color string, opacity float64) string {
	if len(color) == 4 && color[0] == '#' {
		color = "#" + string([]byte{color[1], color[1], color[2], color[2], color[3], color[3]})
	}
	if len(color) != 7 || color[0] != '#' {
		return color
	}
	return fmt.Sprintf("%s%02x", color, int(max(0, min(opacity, 1))*255+0.5))
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz's neato engine.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the output scales like RenderSVG documents.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
