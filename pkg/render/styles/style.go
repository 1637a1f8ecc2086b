// Package styles holds the colour palettes used to draw networks.
//
// A style changes colours only; geometry (radii, stroke widths, label
// placement) is fixed by the draw planner so that every style produces the
// same picture in a different palette.
package styles

import (
	"slices"

	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/network"
)

// Style names.
const (
	NameDefault = "default"
	NameDark    = "dark"
)

// Style is a named colour palette. Colours are CSS colour strings.
type Style struct {
	Name       string `json:"name"`
	Background string `json:"background"`
	Edge       string `json:"edge"`
	Input      string `json:"input"`
	Hidden     string `json:"hidden"`
	Output     string `json:"output"`
	Label      string `json:"label"`
}

// Default is the dashboard palette: indigo inputs, green outputs and grey
// hidden layers over a light grey mesh.
func Default() Style {
	return Style{
		Name:       NameDefault,
		Background: "transparent",
		Edge:       "#aaa",
		Input:      "#4f46e5",
		Hidden:     "#6b7280",
		Output:     "#16a34a",
		Label:      "#111827",
	}
}

// Dark keeps the role colours but lightens labels and edges for dark panels.
func Dark() Style {
	return Style{
		Name:       NameDark,
		Background: "#0f172a",
		Edge:       "#64748b",
		Input:      "#818cf8",
		Hidden:     "#9ca3af",
		Output:     "#4ade80",
		Label:      "#e5e7eb",
	}
}

var registry = map[string]func() Style{
	NameDefault: Default,
	NameDark:    Dark,
}

// Lookup returns the style registered under name. An empty name selects
// the default style.
func Lookup(name string) (Style, error) {
	if name == "" {
		return Default(), nil
	}
	fn, ok := registry[name]
	if !ok {
		return Style{}, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (must be one of: %v)", name, Names())
	}
	return fn(), nil
}

// Names lists the registered style names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// NodeFill returns the fill colour for nodes of the given role.
func (s Style) NodeFill(r network.Role) string {
	switch r {
	case network.RoleInput:
		return s.Input
	case network.RoleOutput:
		return s.Output
	default:
		return s.Hidden
	}
}
