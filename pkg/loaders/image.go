package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/chewxy/math32"

	"github.com/df07/go-kdop-optimizer/pkg/core"
)

// gamma is the display transfer exponent undone at load time so patch
// colors live in linear light
const gamma = 2.2

// Color is one linear-light RGB pixel. Pixels are kept in single precision;
// the evaluator widens them to float64 on the way in.
type Color struct {
	R, G, B float32
}

// Vec3 widens the pixel to an evaluator point in color space
func (c Color) Vec3() core.Vec3 {
	return core.NewVec3(float64(c.R), float64(c.G), float64(c.B))
}

// ImageData contains loaded image data as a linear float32 color array
type ImageData struct {
	Width  int
	Height int
	Pixels []Color
}

// LoadImage loads a PNG or JPEG image, gamma-decodes it and converts it to
// a linear color array
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Auto-detects PNG/JPEG from the file header
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]; decode to linear [0, 1]
			pixels[y*width+x] = Color{
				R: math32.Pow(float32(r)/65535.0, gamma),
				G: math32.Pow(float32(g)/65535.0, gamma),
				B: math32.Pow(float32(b)/65535.0, gamma),
			}
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

// At returns the pixel at (x, y); coordinates must be in bounds
func (d *ImageData) At(x, y int) Color {
	return d.Pixels[y*d.Width+x]
}

// Neighborhood returns the 3x3 patch of color-space points centered on an
// interior pixel, row by row. (x, y) must satisfy 1 <= x <= Width-2 and
// 1 <= y <= Height-2.
func (d *ImageData) Neighborhood(x, y int) [9]core.Vec3 {
	var patch [9]core.Vec3
	for j := -1; j <= 1; j++ {
		for i := -1; i <= 1; i++ {
			patch[(i+1)+3*(j+1)] = d.At(x+i, y+j).Vec3()
		}
	}
	return patch
}

// RandomInterior picks a uniform interior pixel, i.e. one whose full 3x3
// neighborhood exists
func (d *ImageData) RandomInterior(sampler core.Sampler) (int, int) {
	x := clampInt(int(sampler.Get1D()*float64(d.Width-2)+1), 1, d.Width-2)
	y := clampInt(int(sampler.Get1D()*float64(d.Height-2)+1), 1, d.Height-2)
	return x, y
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
