package accel

import "errors"

var (
	ErrUnknownAccel  = errors.New("accel: unknown acceleration structure")
	ErrInvalidParams = errors.New("accel: invalid parameters")
)
