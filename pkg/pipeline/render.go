package pipeline

import (
	"context"

	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/render/draw"
	"github.com/matzehuels/netgraph/pkg/render/sink"
	"github.com/matzehuels/netgraph/pkg/render/styles"
)

// Render plans one frame of topo and executes it into every requested
// format.
func Render(ctx context.Context, topo *network.Topology, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	style, err := styles.Lookup(opts.Style)
	if err != nil {
		return nil, err
	}
	cmds, err := draw.Plan(topo, opts.Zoom, draw.WithStyle(style))
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("planned frame", "commands", len(cmds), "zoom", opts.Zoom, "style", style.Name)

	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(cmds, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(topo,
				sink.WithJSONZoom(opts.Zoom),
				sink.WithJSONStyle(style),
				sink.WithJSONSeed(opts.Seed))
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, cmds, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, cmds, svgOpts...)
		case FormatDOT:
			data = []byte(sink.ToDOT(cmds))
		case FormatGraphviz:
			data, err = sink.RenderDOTSVG(ctx, sink.ToDOT(cmds))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			if errors.GetCode(err) != "" {
				return nil, err
			}
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	return svgOpts
}
