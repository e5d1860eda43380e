package asset

import "errors"

var (
	ErrInvalidName       = errors.New("asset: invalid asset name")
	ErrUnknownImpl       = errors.New("asset: unknown implementation")
	ErrNotFound          = errors.New("asset: asset not found")
	ErrFetch             = errors.New("asset: could not fetch")
	ErrUnsupportedScheme = errors.New("asset: unsupported scheme")
)
