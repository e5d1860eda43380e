// Package tracer implements the workers that evaluate frame blocks and the
// schedulers that split frames among them.
package tracer

import (
	"time"

	"github.com/achilleasa/prism/sampling"
	"github.com/achilleasa/prism/types"
)

// PixelFunc computes the value of pixel (x, y) for one sample pass. Each
// tracer owns the rng it passes in.
type PixelFunc func(rng *sampling.Rng, x, y uint32) types.Vec3

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The number of samples to evaluate per pixel.
	SamplesPerPixel uint32

	// Seed for the tracer's random number generator. Tracers derive their
	// per-block seed from it so renders are reproducible.
	Seed int64

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height.
	BlockH uint32

	// The time for rendering the last block.
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get a relative speed estimate used for the initial block assignment.
	Speed() uint32

	// Setup the tracer to accumulate RGB samples produced by fn into
	// accum, a frameW*frameH*3 float buffer.
	Init(frameW, frameH uint32, accum []float32, fn PixelFunc) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last block statistics.
	Stats() *Stats

	// Shutdown tracer.
	Close()
}
