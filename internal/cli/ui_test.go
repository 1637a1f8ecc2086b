package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/presets"
)

func TestStatsLine(t *testing.T) {
	tests := []struct {
		cached bool
		status string
	}{
		{false, iconFresh},
		{true, iconCached},
	}
	for _, tt := range tests {
		got := statsLine(5, 38, 240, tt.cached)
		for _, want := range []string{"5 layers", "38 nodes", "240 edges", tt.status} {
			if !strings.Contains(got, want) {
				t.Errorf("statsLine(cached=%v) = %q, missing %q", tt.cached, got, want)
			}
		}
	}
}

func TestLayerTable(t *testing.T) {
	p, err := presets.Get("mnist-mlp")
	if err != nil {
		t.Fatal(err)
	}
	out := layerTable(network.Summarize(p.Layers))

	for _, want := range []string{"Layer", "Params", "Input", "ReLU", "Softmax", "Total", "784", "100480", "109386"} {
		if !strings.Contains(out, want) {
			t.Errorf("layerTable() missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, network.FormatKiB(109386*network.BytesPerParam+784*network.BytesPerParam)) {
		t.Errorf("layerTable() missing total memory:\n%s", out)
	}
}
