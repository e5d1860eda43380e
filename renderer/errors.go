package renderer

import "errors"

var (
	ErrNoTracers      = errors.New("renderer: no tracers attached")
	ErrInvalidOptions = errors.New("renderer: invalid options")
	ErrInterrupted    = errors.New("renderer: interrupted while rendering")
)
