package network

import (
	"fmt"
	"math"
)

// BytesPerParam is the storage size of one float32 parameter.
const BytesPerParam = 4

// LayerSummary holds the size figures of one dense layer.
type LayerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Units int    `json:"units"`

	Activation string `json:"activation,omitempty"`

	// Params is in·out + out (weights plus biases), zero for the input layer.
	Params int `json:"params"`

	// Bytes is Params·4, or Units·4 for the input layer.
	Bytes int `json:"bytes"`
}

// Summary is the parameter table of a fully connected network.
type Summary struct {
	Layers      []LayerSummary `json:"layers"`
	TotalParams int            `json:"total_params"`
	TotalBytes  int            `json:"total_bytes"`
}

// Summarize computes per-layer parameter and memory figures treating every
// pair of adjacent layers as a dense connection. True unit counts are used
// for capped layers.
func Summarize(layers []LayerSpec) Summary {
	s := Summary{Layers: make([]LayerSummary, 0, len(layers))}
	for i, l := range layers {
		ls := LayerSummary{
			ID:    l.ID,
			Name:  l.Label(),
			Role:  RoleOf(i, len(layers)).String(),
			Units: l.TrueUnits(),

			Activation: l.Activation,
		}
		if i == 0 {
			ls.Bytes = ls.Units * BytesPerParam
		} else {
			in := layers[i-1].TrueUnits()
			ls.Params = in*ls.Units + ls.Units
			ls.Bytes = ls.Params * BytesPerParam
		}
		s.TotalParams += ls.Params
		s.TotalBytes += ls.Bytes
		s.Layers = append(s.Layers, ls)
	}
	return s
}

// CapNodes limits every layer to at most maxNodes drawn nodes. Layers that
// shrink keep their true width in Units. A maxNodes below 1 returns a copy
// of layers unchanged.
func CapNodes(layers []LayerSpec, maxNodes int) []LayerSpec {
	out := make([]LayerSpec, len(layers))
	copy(out, layers)
	if maxNodes < 1 {
		return out
	}
	for i := range out {
		if out[i].NodeCount > maxNodes {
			out[i].Units = out[i].TrueUnits()
			out[i].NodeCount = maxNodes
		}
	}
	return out
}

// FormatKiB renders a byte count the way the layer table does, e.g. "392.5 KB".
func FormatKiB(bytes int) string {
	kib := math.Round(float64(bytes)/1024*10) / 10
	return fmt.Sprintf("%.1f KB", kib)
}
