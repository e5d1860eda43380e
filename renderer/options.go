package renderer

import (
	"fmt"

	"github.com/achilleasa/prism/types"
)

// Shading modes for the raycast renderer.
type Mode uint8

const (
	// Reflectance shaded by the cosine between normal and view direction.
	Shaded Mode = iota

	// Absolute value of the shading normal.
	Normals

	// Reflectance without shading.
	Flat
)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of samples. A single sample traces through pixel centers;
	// more samples jitter primary rays within each pixel.
	SamplesPerPixel uint32

	// Number of tracers; defaults to the number of CPUs.
	Workers int

	// Shading mode.
	Mode Mode

	// Color for rays that hit nothing.
	Background types.Vec3

	// Exposure for tonemapping.
	Exposure float32

	// Base seed for all tracers.
	Seed int64
}

var modeNames = map[string]Mode{
	"shaded":  Shaded,
	"normals": Normals,
	"flat":    Flat,
}

// Parse a shading mode name.
func ParseMode(name string) (Mode, error) {
	mode, exists := modeNames[name]
	if !exists {
		return Shaded, fmt.Errorf("%w: unknown shading mode %q", ErrInvalidOptions, name)
	}
	return mode, nil
}
