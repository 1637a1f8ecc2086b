package network

import (
	"fmt"

	"github.com/matzehuels/netgraph/pkg/errors"
)

// LayerSpec describes one layer of the network.
type LayerSpec struct {
	// ID is unique within a network and prefixes the ids of the layer's nodes.
	ID string `json:"id" toml:"id" bson:"id"`

	// Name is the display label drawn under the layer's column.
	Name string `json:"name" toml:"name" bson:"name"`

	// NodeCount is the number of drawn nodes, at least 1.
	NodeCount int `json:"nodes" toml:"nodes" bson:"nodes"`

	// Units is the true width of the layer when NodeCount has been capped
	// for display. Zero means NodeCount is the true width.
	Units int `json:"units,omitempty" toml:"units,omitempty" bson:"units,omitempty"`

	// Slot is an optional fractional x position in (0, 1).
	Slot *float64 `json:"slot,omitempty" toml:"slot,omitempty" bson:"slot,omitempty"`

	// Activation names the layer's activation function for summaries.
	Activation string `json:"activation,omitempty" toml:"activation,omitempty" bson:"activation,omitempty"`
}

// NewLayerSpec returns a validated layer description.
func NewLayerSpec(id, name string, nodeCount int) (LayerSpec, error) {
	l := LayerSpec{ID: id, Name: name, NodeCount: nodeCount}
	if err := l.Validate(); err != nil {
		return LayerSpec{}, err
	}
	return l, nil
}

// MustLayerSpec is like NewLayerSpec but panics on invalid input.
// It is intended for static layer tables.
func MustLayerSpec(id, name string, nodeCount int) LayerSpec {
	l, err := NewLayerSpec(id, name, nodeCount)
	if err != nil {
		panic(err)
	}
	return l
}

// Validate checks the fields of a single layer.
func (l LayerSpec) Validate() error {
	if l.ID == "" {
		return errors.New(errors.ErrCodeInvalidTopology, "layer id is required")
	}
	if l.NodeCount < 1 {
		return errors.New(errors.ErrCodeInvalidTopology, "layer %q has %d nodes, need at least 1", l.ID, l.NodeCount)
	}
	if l.Units < 0 {
		return errors.New(errors.ErrCodeInvalidTopology, "layer %q has negative units", l.ID)
	}
	if l.Slot != nil && (*l.Slot <= 0 || *l.Slot >= 1) {
		return errors.New(errors.ErrCodeInvalidTopology, "layer %q slot %g outside (0, 1)", l.ID, *l.Slot)
	}
	return nil
}

// WithSlot returns a copy of l placed at the fractional x position slot.
func (l LayerSpec) WithSlot(slot float64) LayerSpec {
	l.Slot = &slot
	return l
}

// Label returns the text drawn under the layer.
func (l LayerSpec) Label() string {
	if l.Name == "" {
		return l.ID
	}
	return l.Name
}

// TrueUnits returns Units when set and NodeCount otherwise.
func (l LayerSpec) TrueUnits() int {
	if l.Units > 0 {
		return l.Units
	}
	return l.NodeCount
}

// Role classifies a layer by its position in the network.
type Role int

const (
	RoleInput Role = iota
	RoleHidden
	RoleOutput
)

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	default:
		return "hidden"
	}
}

// RoleOf returns the role of layer index in a network of count layers.
// A single-layer network is all input.
func RoleOf(index, count int) Role {
	switch {
	case index == 0:
		return RoleInput
	case index == count-1:
		return RoleOutput
	default:
		return RoleHidden
	}
}

// Node is one positioned unit of a layer.
type Node struct {
	ID      string  `json:"id"`
	LayerID string  `json:"layer"`
	Layer   int     `json:"layer_index"`
	Index   int     `json:"index"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// NodeID returns the id of node index in layer layerID.
func NodeID(layerID string, index int) string {
	return fmt.Sprintf("%s-%d", layerID, index)
}

// Edge connects a node to a node of the next layer.
type Edge struct {
	SourceID string  `json:"source"`
	TargetID string  `json:"target"`
	Weight   float64 `json:"weight"`
}

// Topology is the result of one build: positioned nodes and the edge mesh.
// It is never mutated after Build returns.
type Topology struct {
	Layers []LayerSpec
	Nodes  []Node
	Edges  []Edge
	Width  float64
	Height float64

	xs      []float64
	offsets []int
	index   map[string]int
}

// Node looks up a node by id.
func (t *Topology) Node(id string) (Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return Node{}, false
	}
	return t.Nodes[i], true
}

// LayerNodes returns the nodes of layer i in index order.
func (t *Topology) LayerNodes(i int) []Node {
	return t.Nodes[t.offsets[i]:t.offsets[i+1]]
}

// LayerX returns the x coordinate shared by every node of layer i.
func (t *Topology) LayerX(i int) float64 {
	return t.xs[i]
}

// Role returns the role of the layer n belongs to.
func (t *Topology) Role(n Node) Role {
	return RoleOf(n.Layer, len(t.Layers))
}

// NodeCount returns the number of nodes.
func (t *Topology) NodeCount() int { return len(t.Nodes) }

// EdgeCount returns the number of edges.
func (t *Topology) EdgeCount() int { return len(t.Edges) }
