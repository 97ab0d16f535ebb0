package optimizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-kdop-optimizer/pkg/kdop"
	"github.com/df07/go-kdop-optimizer/pkg/loaders"
)

func solidImage(width, height int, c loaders.Color) *loaders.ImageData {
	pixels := make([]loaders.Color, width*height)
	for i := range pixels {
		pixels[i] = c
	}
	return &loaders.ImageData{Width: width, Height: height, Pixels: pixels}
}

func gradientImage(width, height int) *loaders.ImageData {
	pixels := make([]loaders.Color, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = loaders.Color{
				R: float32(x) / float32(width),
				G: float32(y) / float32(height),
				B: float32(x+y) / float32(width+height),
			}
		}
	}
	return &loaders.ImageData{Width: width, Height: height, Pixels: pixels}
}

func TestNeighborhoodCost_SolidImage(t *testing.T) {
	img := solidImage(8, 8, loaders.Color{R: 0.5, G: 0.25, B: 0.75})
	cost := NewNeighborhoodCost(img, kdop.DefaultConfig(), 500, 1, 2)
	defer cost.Close()

	// Every neighborhood collapses to a single color point, so the fitted
	// slabs have zero width and zero volume
	assert.Equal(t, 0.0, cost.Evaluate(cubeAxes))
}

func TestNeighborhoodCost_ZeroSamples(t *testing.T) {
	img := solidImage(8, 8, loaders.Color{R: 0.5, G: 0.25, B: 0.75})
	cost := NewNeighborhoodCost(img, kdop.DefaultConfig(), 0, 1, 1)
	defer cost.Close()

	// A zero sample budget is clamped rather than dividing by zero
	score := cost.Evaluate(cubeAxes)
	assert.False(t, math.IsNaN(score))
	assert.Equal(t, 0.0, score)
}

func TestNeighborhoodCost_Deterministic(t *testing.T) {
	img := gradientImage(16, 16)
	cost := NewNeighborhoodCost(img, kdop.DefaultConfig(), 300, 7, 1)
	defer cost.Close()

	first := cost.Evaluate(cubeAxes)
	second := cost.Evaluate(cubeAxes)

	assert.Greater(t, first, 0.0, "varying neighborhoods should enclose nonzero volume")
	assert.Equal(t, first, second, "fixed seed must give identical evaluations")
}
