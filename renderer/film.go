package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/achilleasa/prism/types"
)

const gamma = 1 / 2.2

// Film accumulates RGB radiance estimates over one or more frames. Raster
// row 0 is the bottom of the image.
type Film struct {
	W, H uint32

	// Accumulated RGB values; 3 floats per pixel.
	accum []float32

	// Number of accumulated frames.
	frames uint32
}

// Create a film for a w x h frame.
func NewFilm(w, h uint32) *Film {
	return &Film{
		W:     w,
		H:     h,
		accum: make([]float32, w*h*3),
	}
}

// Get the aspect ratio.
func (f *Film) AspectRatio() float32 {
	return float32(f.W) / float32(f.H)
}

// Get the number of accumulated frames.
func (f *Film) Frames() uint32 {
	return f.frames
}

// Get the averaged value of raster pixel (x, y).
func (f *Film) Pixel(x, y uint32) types.Vec3 {
	if f.frames == 0 {
		return types.Vec3{}
	}
	offset := 3 * (y*f.W + x)
	scale := 1 / float32(f.frames)
	return types.Vec3{f.accum[offset], f.accum[offset+1], f.accum[offset+2]}.Mul(scale)
}

// Reset accumulated values.
func (f *Film) Clear() {
	for i := range f.accum {
		f.accum[i] = 0
	}
	f.frames = 0
}

// Convert the film to an 8-bit image applying exposure and gamma.
func (f *Film) Image(exposure float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(f.W), int(f.H)))
	for y := uint32(0); y < f.H; y++ {
		row := int(f.H - 1 - y)
		for x := uint32(0); x < f.W; x++ {
			c := f.Pixel(x, y).Mul(exposure)
			img.SetRGBA(int(x), row, color.RGBA{toByte(c[0]), toByte(c[1]), toByte(c[2]), 255})
		}
	}
	return img
}

// Write the film as a PNG image.
func (f *Film) WritePNG(path string, exposure float32) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("renderer: could not create '%s': %w", path, err)
	}
	defer file.Close()

	if err = png.Encode(file, f.Image(exposure)); err != nil {
		return fmt.Errorf("renderer: could not encode '%s': %w", path, err)
	}
	return nil
}

func toByte(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Pow(float64(v), gamma)*255 + 0.5)
}
