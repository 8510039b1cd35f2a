package testkit

import "math/rand"

// frozenSeed keeps fixture data stable across runs and machines, so
// tolerance tests compare against the same inputs every time.
const frozenSeed = 13910398

// FrozenFloats returns n deterministic pseudo-random values in [-1, 1).
func FrozenFloats(n int) []float64 {
	rng := rand.New(rand.NewSource(frozenSeed))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*2 - 1
	}
	return out
}

// FrozenMask returns a deterministic boolean mask: true where the
// corresponding FrozenFloats value is non-negative.
func FrozenMask(n int) []bool {
	values := FrozenFloats(n)
	mask := make([]bool, n)
	for i, v := range values {
		mask[i] = v >= 0
	}
	return mask
}

// FrozenMatrix returns a deterministic rows x cols matrix with values
// in [-1, 1).
func FrozenMatrix(rows, cols int) [][]float64 {
	flat := FrozenFloats(rows * cols)
	m := make([][]float64, rows)
	for i := range m {
		m[i] = flat[i*cols : (i+1)*cols]
	}
	return m
}
