// Package sink executes draw plans and exports topologies.
//
// Each sink is a thin executor over the command list produced by
// [draw.Plan] or over the [network.Topology] itself:
//
//   - [RenderSVG]: standalone SVG document
//   - [RenderPNG], [RenderPDF]: SVG converted with rsvg-convert
//   - [RenderJSON]: nodes, edges and layers for web front-ends
//   - [ToDOT], [RenderDOTSVG]: Graphviz DOT with pinned positions
//   - [Canvas]: a grid of terminal cells
//
// Sinks never compute geometry of their own; they only map the logical
// coordinates of the plan onto their output.
//
// [draw.Plan]: github.com/matzehuels/netgraph/pkg/render/draw.Plan
// [network.Topology]: github.com/matzehuels/netgraph/pkg/network.Topology
package sink
