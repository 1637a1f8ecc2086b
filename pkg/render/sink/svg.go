package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/netgraph/pkg/render/draw"
)

const nodeInteractionCSS = `
    .node { transition: r 0.15s ease; }
    .node:hover { r: 8; }
    .label { font-family: ui-sans-serif, system-ui, sans-serif; }`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title       string
	interactive bool
}

// WithTitle adds a <title> element to the document.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// WithInteraction adds hover styling for nodes.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// RenderSVG replays a draw plan as an SVG document sized to the Clear
// command's surface. The zoom group is written as
// translate(origin)·scale(zoom)·translate(-origin) so renderers without
// transform-origin support agree with browsers.
func RenderSVG(cmds []draw.Command, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	for _, c := range cmds {
		switch c := c.(type) {
		case draw.Clear:
			fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
				c.Width, c.Height, c.Width, c.Height)
			if r.title != "" {
				buf.WriteString("  <title>")
				writeEscaped(&buf, r.title)
				buf.WriteString("</title>\n")
			}
			if r.interactive {
				fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeInteractionCSS)
			}
			if c.Background != "" && c.Background != "transparent" {
				fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", c.Background)
			}
		case draw.BeginGroup:
			fmt.Fprintf(&buf, `  <g class="zoom" data-zoom="%.2f" transform="translate(%.2f %.2f) scale(%.4f) translate(%.2f %.2f)">`+"\n",
				c.Scale, c.OriginX, c.OriginY, c.Scale, -c.OriginX, -c.OriginY)
		case draw.Line:
			fmt.Fprintf(&buf, `    <line class="edge" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.3f" stroke-opacity="%.2f"/>`+"\n",
				c.X1, c.Y1, c.X2, c.Y2, c.Color, c.Width, c.Opacity)
		case draw.Circle:
			fmt.Fprintf(&buf, `    <circle class="node %s" id="node-`, c.Role)
			writeEscaped(&buf, c.NodeID)
			fmt.Fprintf(&buf, `" cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n", c.CX, c.CY, c.R, c.Fill)
		case draw.Text:
			weight := "normal"
			if c.Bold {
				weight = "bold"
			}
			fmt.Fprintf(&buf, `    <text class="label" x="%.2f" y="%.2f" text-anchor="middle" font-size="%.0f" font-weight="%s" fill="%s">`,
				c.X, c.Y, c.Size, weight, c.Color)
			writeEscaped(&buf, c.Content)
			buf.WriteString("</text>\n")
		case draw.EndGroup:
			buf.WriteString("  </g>\n")
		}
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeEscaped(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}
