package tracer

import "errors"

var (
	ErrNotInitialized  = errors.New("tracer: not initialized")
	ErrInvalidBuffer   = errors.New("tracer: accumulation buffer does not match frame dimensions")
	ErrBlockOutOfRange = errors.New("tracer: block exceeds frame height")
)
