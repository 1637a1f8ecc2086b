package pipeline

import (
	"github.com/matzehuels/netgraph/pkg/network"
)

// Build constructs the topology of layers on the options' surface.
func Build(layers []network.LayerSpec, opts Options) (*network.Topology, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	return network.Build(layers, opts.Width, opts.Height, network.WithWeights(opts.Weights()))
}
