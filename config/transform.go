package config

import (
	"fmt"
	"math"

	"github.com/achilleasa/prism/types"
)

// Build an object to world matrix from props. Two forms are supported:
//
//	{"matrix": [16 numbers, column-major]}
//	{"translate": [x,y,z], "rotate": {"axis": [x,y,z], "angle": degrees}, "scale": s | [x,y,z]}
//
// The second form is composed as translate * rotate * scale. Missing keys
// default to the identity.
func Transform(props Props) (types.Mat4, error) {
	if props == nil {
		return types.Ident4(), nil
	}

	if props.Has("matrix") {
		values, ok := toFloats(props["matrix"])
		if !ok || len(values) != 16 {
			return types.Mat4{}, ErrInvalidMatrix
		}
		var m types.Mat4
		copy(m[:], values)
		return m, nil
	}

	m := types.Ident4()
	if props.Has("translate") {
		t, err := props.Vec3("translate")
		if err != nil {
			return types.Mat4{}, err
		}
		m = types.Translate3D(t[0], t[1], t[2])
	}

	if props.Has("rotate") {
		rot, err := props.Sub("rotate")
		if err != nil {
			return types.Mat4{}, err
		}
		axis, err := rot.Vec3("axis")
		if err != nil {
			return types.Mat4{}, err
		}
		if axis.IsZero() {
			return types.Mat4{}, fmt.Errorf("%w: rotation axis must be non-zero", ErrTypeMismatch)
		}
		angle, err := rot.Float("angle")
		if err != nil {
			return types.Mat4{}, err
		}
		q := types.QuatFromAxisAngle(axis, angle*math.Pi/180)
		m = m.Mul4(q.Mat4())
	}

	if props.Has("scale") {
		s, err := props.Vec3("scale")
		if err != nil {
			return types.Mat4{}, err
		}
		m = m.Mul4(types.Scale3D(s[0], s[1], s[2]))
	}

	return m, nil
}
