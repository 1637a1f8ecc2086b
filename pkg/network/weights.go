package network

import "math/rand/v2"

// WeightSource hands out the weight stream used by a single build.
type WeightSource interface {
	// Stream returns a generator of weights in [0, 1]. Build calls it once
	// and draws one weight per edge in edge order.
	Stream() func() float64
}

type randomWeights struct{}

func (randomWeights) Stream() func() float64 { return rand.Float64 }

// RandomWeights re-samples every edge weight on every build.
func RandomWeights() WeightSource { return randomWeights{} }

type seededWeights struct{ seed uint64 }

func (s seededWeights) Stream() func() float64 {
	rng := rand.New(rand.NewPCG(s.seed, s.seed^0xdeadbeef))
	return rng.Float64
}

// SeededWeights yields identical weights for identical seeds and topologies.
func SeededWeights(seed uint64) WeightSource { return seededWeights{seed: seed} }

type constantWeights struct{ w float64 }

func (c constantWeights) Stream() func() float64 {
	return func() float64 { return c.w }
}

// ConstantWeights gives every edge weight w, clamped to [0, 1].
func ConstantWeights(w float64) WeightSource {
	return constantWeights{w: max(0, min(w, 1))}
}
