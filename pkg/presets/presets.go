// Package presets holds the built-in network architectures.
//
// The dashboard preset reproduces the fixed five-layer graph of the model
// architecture card; mnist-mlp is the 784/128/64/10 network of the layer
// table. The remaining presets are small representative stacks for the
// model-type selector.
package presets

import (
	"sort"

	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/network"
)

// Default is the preset used when no architecture is given.
const Default = "dashboard"

// Preset is a named layer list.
type Preset struct {
	Name        string              `json:"name"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Layers      []network.LayerSpec `json:"layers"`
}

var registry = map[string]func() Preset{
	"dashboard":   dashboard,
	"mnist-mlp":   mnistMLP,
	"transformer": transformer,
	"cnn":         cnn,
	"rnn":         rnn,
	"mlp":         mlp,
}

// Get returns a fresh copy of the named preset.
func Get(name string) (Preset, error) {
	fn, ok := registry[name]
	if !ok {
		return Preset{}, errors.New(errors.ErrCodePresetNotFound, "unknown preset %q (available: %v)", name, Names())
	}
	return fn(), nil
}

// Names lists the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every preset, sorted by name.
func All() []Preset {
	out := make([]Preset, 0, len(registry))
	for _, name := range Names() {
		out = append(out, registry[name]())
	}
	return out
}

func layer(id, name string, nodes int) network.LayerSpec {
	return network.MustLayerSpec(id, name, nodes)
}

func dashboard() Preset {
	layers := []network.LayerSpec{
		layer("input", "Input", 10),
		layer("hidden1", "Hidden 1", 8),
		layer("hidden2", "Hidden 2", 8),
		layer("hidden3", "Hidden 3", 8),
		layer("output", "Output", 4),
	}
	layers, _ = network.ApplySlots(layers, network.ReferenceSlots())
	return Preset{
		Name:        "dashboard",
		Title:       "Dashboard",
		Description: "Five fixed layers at 10/30/50/70/90% of the width",
		Layers:      layers,
	}
}

// mnistMLP draws at most 16 nodes per layer; Units keeps the real width.
func mnistMLP() Preset {
	spec := []struct {
		id, name, act string
		units         int
	}{
		{"input", "Input", "", 784},
		{"hidden1", "Hidden 1", "ReLU", 128},
		{"hidden2", "Hidden 2", "ReLU", 64},
		{"output", "Output", "Softmax", 10},
	}
	layers := make([]network.LayerSpec, len(spec))
	for i, s := range spec {
		layers[i] = layer(s.id, s.name, s.units)
		layers[i].Activation = s.act
	}
	return Preset{
		Name:        "mnist-mlp",
		Title:       "MNIST MLP",
		Description: "784-128-64-10 classifier, display capped at 16 nodes per layer",
		Layers:      network.CapNodes(layers, 16),
	}
}

func transformer() Preset {
	return Preset{
		Name:        "transformer",
		Title:       "Transformer",
		Description: "Embedding, two attention and feed-forward blocks, output head",
		Layers: []network.LayerSpec{
			layer("embed", "Embedding", 8),
			layer("attn1", "Attention 1", 12),
			layer("ffn1", "FFN 1", 16),
			layer("attn2", "Attention 2", 12),
			layer("ffn2", "FFN 2", 16),
			layer("output", "Output", 6),
		},
	}
}

func cnn() Preset {
	return Preset{
		Name:        "cnn",
		Title:       "CNN",
		Description: "Two convolution and pooling stages followed by a dense head",
		Layers: []network.LayerSpec{
			layer("input", "Input", 12),
			layer("conv1", "Conv 1", 10),
			layer("pool1", "Pool 1", 6),
			layer("conv2", "Conv 2", 8),
			layer("dense", "Dense", 6),
			layer("output", "Output", 4),
		},
	}
}

func rnn() Preset {
	return Preset{
		Name:        "rnn",
		Title:       "RNN",
		Description: "Two stacked recurrent layers with a dense readout",
		Layers: []network.LayerSpec{
			layer("input", "Input", 6),
			layer("lstm1", "LSTM 1", 10),
			layer("lstm2", "LSTM 2", 10),
			layer("dense", "Dense", 6),
			layer("output", "Output", 3),
		},
	}
}

func mlp() Preset {
	return Preset{
		Name:        "mlp",
		Title:       "MLP",
		Description: "Baseline multilayer perceptron",
		Layers: []network.LayerSpec{
			layer("input", "Input", 8),
			layer("hidden1", "Hidden 1", 12),
			layer("hidden2", "Hidden 2", 12),
			layer("output", "Output", 4),
		},
	}
}

// Architecture returns the preset as a saveable architecture.
func (p Preset) Architecture() network.Architecture {
	return network.Architecture{
		Name:        p.Name,
		Title:       p.Title,
		Description: p.Description,
		Layers:      p.Layers,
	}
}
