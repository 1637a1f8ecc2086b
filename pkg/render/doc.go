// Package render provides format conversion shared by the network sinks.
//
// # Overview
//
// Drawing happens in two steps. The [draw] subpackage plans a frame as a
// list of commands; the [sink] subpackage executes that list into a
// concrete format. Colour palettes live in [styles].
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(cmds)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// When rsvg-convert is missing both functions fail with an
// UNSUPPORTED error; [ConverterAvailable] checks ahead of time.
//
// [draw]: github.com/matzehuels/netgraph/pkg/render/draw
// [sink]: github.com/matzehuels/netgraph/pkg/render/sink
// [styles]: github.com/matzehuels/netgraph/pkg/render/styles
package render
