package component_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/netgraph/pkg/component"
	"github.com/matzehuels/netgraph/pkg/network"
)

func Example() {
	layers := []network.LayerSpec{
		network.MustLayerSpec("in", "Input", 4),
		network.MustLayerSpec("hid", "Hidden", 3),
		network.MustLayerSpec("out", "Output", 2),
	}
	c, err := component.New(layers)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	_ = c.SetZoom(ctx, 1.5) // unmounted: remembered only

	surface := component.NewRecorder(300, 200)
	_ = c.Mount(ctx, surface)
	fmt.Println(c.State(), surface.Frames(), len(surface.Last()))
	// Output:
	// mounted 1 33
}
