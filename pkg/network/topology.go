package network

import (
	"math"

	"github.com/matzehuels/netgraph/pkg/errors"
)

// Option configures Build.
type Option func(*builder)

type builder struct {
	weights WeightSource
}

// WithWeights sets the edge weight source. The default is RandomWeights.
func WithWeights(w WeightSource) Option {
	return func(b *builder) {
		if w != nil {
			b.weights = w
		}
	}
}

// ValidateLayers checks a layer sequence without building it.
func ValidateLayers(layers []LayerSpec) error {
	if len(layers) == 0 {
		return errors.New(errors.ErrCodeInvalidTopology, "network has no layers")
	}

	seen := make(map[string]bool, len(layers))
	withSlot := 0
	for _, l := range layers {
		if err := l.Validate(); err != nil {
			return err
		}
		if seen[l.ID] {
			return errors.New(errors.ErrCodeInvalidTopology, "duplicate layer id %q", l.ID)
		}
		seen[l.ID] = true
		if l.Slot != nil {
			withSlot++
		}
	}

	switch withSlot {
	case 0:
	case len(layers):
		for i := 1; i < len(layers); i++ {
			if *layers[i].Slot <= *layers[i-1].Slot {
				return errors.New(errors.ErrCodeInvalidTopology,
					"layer %q slot %g must be greater than %g", layers[i].ID, *layers[i].Slot, *layers[i-1].Slot)
			}
		}
	default:
		return errors.New(errors.ErrCodeInvalidTopology, "%d of %d layers have a slot, need all or none", withSlot, len(layers))
	}
	return nil
}

// ValidateSurface checks that a drawing surface has a positive finite size.
func ValidateSurface(width, height float64) error {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return errors.New(errors.ErrCodeInvalidSurface, "surface %gx%g must have positive size", width, height)
	}
	return nil
}

// IsInvalidTopology reports whether err rejects a layer sequence.
func IsInvalidTopology(err error) bool {
	return errors.Is(err, errors.ErrCodeInvalidTopology)
}

// ApplySlots returns a copy of layers with the given fractional x positions.
func ApplySlots(layers []LayerSpec, slots []float64) ([]LayerSpec, error) {
	if len(slots) != len(layers) {
		return nil, errors.New(errors.ErrCodeInvalidTopology, "%d slots for %d layers", len(slots), len(layers))
	}
	out := make([]LayerSpec, len(layers))
	for i, l := range layers {
		out[i] = l.WithSlot(slots[i])
	}
	return out, nil
}

// Build validates layers, creates one node per unit, positions every layer
// on a width×height surface and wires each layer completely to the next.
// Nothing is returned when validation fails.
func Build(layers []LayerSpec, width, height float64, opts ...Option) (*Topology, error) {
	if err := ValidateLayers(layers); err != nil {
		return nil, err
	}
	if err := ValidateSurface(width, height); err != nil {
		return nil, err
	}

	b := builder{weights: RandomWeights()}
	for _, opt := range opts {
		opt(&b)
	}

	fractions := slots(layers)
	t := &Topology{
		Layers:  append([]LayerSpec(nil), layers...),
		Width:   width,
		Height:  height,
		xs:      make([]float64, len(layers)),
		offsets: make([]int, len(layers)+1),
	}

	nodeCount, edgeCount := 0, 0
	for i, l := range layers {
		nodeCount += l.NodeCount
		if i > 0 {
			edgeCount += layers[i-1].NodeCount * l.NodeCount
		}
	}

	t.Nodes = make([]Node, 0, nodeCount)
	t.index = make(map[string]int, nodeCount)
	for i, l := range layers {
		t.xs[i] = width * fractions[i]
		t.offsets[i] = len(t.Nodes)

		group := make([]Node, l.NodeCount)
		for j := range group {
			group[j] = Node{ID: NodeID(l.ID, j), LayerID: l.ID, Layer: i, Index: j}
		}
		AssignPositions(group, t.xs[i], height)

		for _, n := range group {
			t.index[n.ID] = len(t.Nodes)
			t.Nodes = append(t.Nodes, n)
		}
	}
	t.offsets[len(layers)] = len(t.Nodes)

	next := b.weights.Stream()
	t.Edges = make([]Edge, 0, edgeCount)
	for i := 0; i+1 < len(layers); i++ {
		for _, src := range t.LayerNodes(i) {
			for _, dst := range t.LayerNodes(i + 1) {
				t.Edges = append(t.Edges, Edge{SourceID: src.ID, TargetID: dst.ID, Weight: next()})
			}
		}
	}

	return t, nil
}
