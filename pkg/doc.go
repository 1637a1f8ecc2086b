// Package pkg provides the core libraries for netgraph, a layered neural
// network visualization engine.
//
// # Overview
//
// netgraph draws fully connected feed-forward networks as node-link
// diagrams: one column of nodes per layer, every node of a layer linked to
// every node of the next, edge strokes scaled by weight. The pkg directory
// is organized into these areas:
//
//  1. [network] - Layer specs, topology construction and parameter summaries
//  2. [render] - Draw plans ([render/draw]) and their sinks ([render/sink])
//  3. [component] - The mount/zoom/resize lifecycle of a live view
//  4. [pipeline] - Orchestration (resolve → build → render) with caching
//  5. [cache], [store] - Artifact caching and saved architectures
//
// # Architecture
//
// The typical data flow:
//
//	Preset / architecture file / API request
//	         ↓
//	    [network] (validate layers, build topology, sample weights)
//	         ↓
//	    [render/draw] (plan one frame at a zoom factor)
//	         ↓
//	    SVG / JSON / PNG / PDF / DOT / terminal canvas
//
// # Quick Start
//
// Build and render the dashboard network:
//
//	p, _ := presets.Get("dashboard")
//	topo, err := network.Build(p.Layers, 800, 600,
//	    network.WithWeights(network.SeededWeights(42)))
//	if err != nil {
//	    return err
//	}
//	cmds, err := draw.Plan(topo, 1.5)
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(cmds)
//
// Or let the pipeline do all three stages with caching:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Preset: "mnist-mlp", Seed: 7})
//
// [network]: https://pkg.go.dev/github.com/matzehuels/netgraph/pkg/network
// [render]: https://pkg.go.dev/github.com/matzehuels/netgraph/pkg/render
// [render/draw]: https://pkg.go.dev/github.com/matzehuels/netgraph/pkg/render/draw
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/netgraph/pkg/render/sink
// [component]: https://pkg.go.dev/github.com/matzehuels/netgraph/pkg/component
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/netgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/netgraph/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/netgraph/pkg/store
package pkg
