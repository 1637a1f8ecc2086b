package pipeline

import (
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/presets"
)

// SourceLayers is the Result.Source of runs given explicit layers.
const SourceLayers = "layers"

// Resolve returns the layer list of a run, capped to opts.MaxNodes, and
// the name of its source. A cap outside [0, MaxNodesLimit] is rejected
// before any layer is resolved.
func Resolve(opts Options) ([]network.LayerSpec, string, error) {
	if err := ValidateMaxNodes(opts.MaxNodes); err != nil {
		return nil, "", err
	}
	opts.SetBuildDefaults()

	layers, source := opts.Layers, SourceLayers
	if len(layers) == 0 {
		p, err := presets.Get(opts.Preset)
		if err != nil {
			return nil, "", err
		}
		layers, source = p.Layers, p.Name
	}

	if err := network.ValidateLayers(layers); err != nil {
		return nil, "", err
	}
	return network.CapNodes(layers, opts.MaxNodes), source, nil
}
