package scene

import "errors"

var (
	ErrNoPrimitives        = errors.New("scene: missing primitives")
	ErrMissingCamera       = errors.New("scene: missing camera primitive")
	ErrNotBuilt            = errors.New("scene: acceleration structure not built")
	ErrEmptyPrimitive      = errors.New("scene: primitive references no assets")
	ErrLightAndCamera      = errors.New("scene: primitive cannot be both camera and light")
	ErrMultipleEnvLights   = errors.New("scene: only one environment light is supported")
	ErrInvalidAsset        = errors.New("scene: invalid asset reference")
	ErrSingularTransform   = errors.New("scene: singular primitive transform")
	ErrUnknownPrimitiveKey = errors.New("scene: unknown primitive property")
)
