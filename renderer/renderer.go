// Package renderer turns scenes into images.
package renderer

type Renderer interface {
	// Render frame.
	Render() error

	// Get the accumulated frame.
	Frame() *Film

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
