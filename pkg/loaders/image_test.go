package loaders

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-kdop-optimizer/pkg/core"
)

// writeTestPNG writes an image whose pixel (x, y) has R=x*40, G=y*40, B=128
func writeTestPNG(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 128, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "test.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, img))
	return path
}

func TestLoadImage(t *testing.T) {
	path := writeTestPNG(t, 5, 4)

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Width)
	assert.Equal(t, 4, img.Height)
	require.Len(t, img.Pixels, 20)

	// Pixel (2, 3): sRGB-ish (80, 120, 128) gamma-decoded to linear
	px := img.At(2, 3)
	assert.InDelta(t, math.Pow(80.0/255.0, 2.2), float64(px.R), 1e-4)
	assert.InDelta(t, math.Pow(120.0/255.0, 2.2), float64(px.G), 1e-4)
	assert.InDelta(t, math.Pow(128.0/255.0, 2.2), float64(px.B), 1e-4)
}

func TestLoadImage_Missing(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestImageData_Neighborhood(t *testing.T) {
	path := writeTestPNG(t, 4, 4)
	img, err := LoadImage(path)
	require.NoError(t, err)

	patch := img.Neighborhood(1, 2)

	// Row-major around the center: top-left first, center at index 4
	assert.Equal(t, img.At(0, 1).Vec3(), patch[0])
	assert.Equal(t, img.At(1, 2).Vec3(), patch[4])
	assert.Equal(t, img.At(2, 3).Vec3(), patch[8])
}

func TestImageData_RandomInterior(t *testing.T) {
	path := writeTestPNG(t, 6, 5)
	img, err := LoadImage(path)
	require.NoError(t, err)

	sampler := core.NewHashSampler(7)
	for i := 0; i < 1000; i++ {
		x, y := img.RandomInterior(sampler)
		assert.GreaterOrEqual(t, x, 1)
		assert.LessOrEqual(t, x, img.Width-2)
		assert.GreaterOrEqual(t, y, 1)
		assert.LessOrEqual(t, y, img.Height-2)
	}
}
