// Package network builds and lays out layered node-link topologies.
//
// A network is described by an ordered list of [LayerSpec] values. [Build]
// turns that list into a [Topology]: one [Node] per unit of every layer and
// one [Edge] for every pair of nodes in adjacent layers (a complete bipartite
// mesh between layer i and layer i+1). Layout happens during the build so
// that edges always reference positioned nodes.
//
// # Layout
//
// Layer i of L is placed at x = width·(i+1)/(L+1) unless every layer carries
// an explicit fractional [LayerSpec.Slot]. Within a layer of n nodes the
// vertical step is height/(n+1) and node j sits at y = step·(j+1), see
// [AssignPositions]. A layer with a single node therefore sits at height/2.
//
// # Edge Weights
//
// Weights are decorative scalars in [0, 1]. The default [RandomWeights]
// source re-samples every build; [SeededWeights] yields the same weights for
// the same seed and topology, and [ConstantWeights] draws a flat mesh.
//
// # Usage
//
//	layers := []network.LayerSpec{
//	    network.MustLayerSpec("input", "Input", 4),
//	    network.MustLayerSpec("hidden", "Hidden", 3),
//	    network.MustLayerSpec("output", "Output", 2),
//	}
//	topo, err := network.Build(layers, 300, 200, network.WithWeights(network.SeededWeights(42)))
//	if err != nil {
//	    return err
//	}
//	n, _ := topo.Node("input-0") // constant-time lookup
//
// Invalid input (no layers, a layer without nodes, duplicate layer ids, bad
// slots) fails with an error carrying [errors.ErrCodeInvalidTopology]; see
// [IsInvalidTopology].
//
// [errors.ErrCodeInvalidTopology]: github.com/matzehuels/netgraph/pkg/errors.ErrCodeInvalidTopology
package network
