package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashSampler_Deterministic(t *testing.T) {
	a := NewHashSampler(1234)
	b := NewHashSampler(1234)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Get1D(), b.Get1D(), "same seed must yield the same sequence")
	}

	c := NewHashSampler(1235)
	different := false
	for i := 0; i < 10; i++ {
		if a.Get1D() != c.Get1D() {
			different = true
		}
	}
	assert.True(t, different, "different seeds should diverge")
}

func TestHashSampler_Range(t *testing.T) {
	s := NewHashSampler(0)
	for i := 0; i < 10000; i++ {
		v := s.Get1D()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSampleOnUnitSphere(t *testing.T) {
	s := NewHashSampler(42)
	var sum Vec3
	const n = 5000
	for i := 0; i < n; i++ {
		v := SampleOnUnitSphere(s.Get2D())
		assert.InDelta(t, 1.0, v.Length(), 1e-12, "samples must be unit length")
		sum = sum.Add(v)
	}

	// Uniform sphere samples average out near the origin
	mean := sum.Multiply(1.0 / n)
	assert.Less(t, mean.Length(), 0.05)
}
