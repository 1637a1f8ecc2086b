package network

// AssignPositions places the nodes of one layer at x and spreads them
// vertically: with n nodes the step is height/(n+1) and node j lands at
// y = step·(j+1). The nodes are updated in place. len(nodes) must be at
// least 1.
func AssignPositions(nodes []Node, x, height float64) {
	step := height / float64(len(nodes)+1)
	for j := range nodes {
		nodes[j].X = x
		nodes[j].Y = step * float64(j+1)
	}
}

// EvenSlot returns the fractional x position of layer i out of count
// layers under even spacing.
func EvenSlot(i, count int) float64 {
	return float64(i+1) / float64(count+1)
}

// ReferenceSlots returns the fixed slots of the five-layer dashboard graph.
func ReferenceSlots() []float64 {
	return []float64{0.1, 0.3, 0.5, 0.7, 0.9}
}

// slots resolves the fractional x position of every layer. Explicit slots
// are used only when every layer has one.
func slots(layers []LayerSpec) []float64 {
	out := make([]float64, len(layers))
	explicit := true
	for _, l := range layers {
		if l.Slot == nil {
			explicit = false
			break
		}
	}
	for i, l := range layers {
		if explicit {
			out[i] = *l.Slot
		} else {
			out[i] = EvenSlot(i, len(layers))
		}
	}
	return out
}
