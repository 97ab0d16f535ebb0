package core

import "math"

// Sampler provides random values for the optimization loops
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// HashSampler is a counter-based hash PRNG (PCG output permutation).
// The state is a plain uint32, so samplers for independent work items can
// be derived by offsetting a base seed without any shared state.
type HashSampler struct {
	state uint32
}

// NewHashSampler creates a sampler starting from the given seed
func NewHashSampler(seed uint32) *HashSampler {
	return &HashSampler{state: seed}
}

// next advances the hash state and returns the permuted output. The
// permuted word is fed back into the state, chaining the hash.
func (h *HashSampler) next() uint32 {
	h.state = h.state*747796405 + 2891336453
	h.state = ((h.state >> ((h.state >> 28) + 4)) ^ h.state) * 277803737
	h.state ^= h.state >> 22
	return h.state
}

// Get1D returns a value in [0, 1)
func (h *HashSampler) Get1D() float64 {
	return float64(h.next()) * 2.3283064365386963e-10 // 1 / 2^32
}

// Get2D returns two values in [0, 1)
func (h *HashSampler) Get2D() Vec2 {
	return NewVec2(h.Get1D(), h.Get1D())
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	cosTheta := 2.0*sample.X - 1.0 // cosθ ∈ [-1, 1]
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y
	x := sinTheta * math.Cos(phi)
	y := sinTheta * math.Sin(phi)
	return NewVec3(x, y, cosTheta)
}
