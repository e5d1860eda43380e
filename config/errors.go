package config

import "errors"

var (
	ErrMissingProp   = errors.New("config: missing property")
	ErrTypeMismatch  = errors.New("config: type mismatch")
	ErrInvalidMatrix = errors.New("config: matrix must contain 16 numbers")
)
