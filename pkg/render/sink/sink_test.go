package sink

import (
	"testing"

	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/render/draw"
)

func testTopology(t *testing.T, width, height float64) *network.Topology {
	t.Helper()
	layers := []network.LayerSpec{
		network.MustLayerSpec("input", "Input", 4),
		network.MustLayerSpec("hidden", "Hidden", 3),
		network.MustLayerSpec("output", "Output", 2),
	}
	topo, err := network.Build(layers, width, height, network.WithWeights(network.ConstantWeights(0.5)))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return topo
}

func testPlan(t *testing.T, topo *network.Topology, zoom float64, opts ...draw.Option) []draw.Command {
	t.Helper()
	cmds, err := draw.Plan(topo, zoom, opts...)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	return cmds
}
