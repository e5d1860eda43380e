package types

// An affine transform together with the derived matrices needed to
// transform normals and to rescale areas.
type Transform struct {
	// Object to world matrix.
	M Mat4

	// Inverse transpose of the linear part of M.
	NormalM Mat3

	// Absolute determinant of the linear part of M.
	J float32
}

// Create a Transform from a matrix.
func NewTransform(m Mat4) Transform {
	lin := m.Mat3()
	det := lin.Det()
	return Transform{
		M:       m,
		NormalM: lin.Inv().Transpose(),
		J:       abs32(det),
	}
}

// Create an identity transform.
func IdentityTransform() Transform {
	return NewTransform(Ident4())
}

// Transform a point.
func (t Transform) Point(p Vec3) Vec3 {
	return t.M.MulPoint(p)
}

// Transform a direction. The result is not normalized.
func (t Transform) Dir(d Vec3) Vec3 {
	return t.M.MulDir(d)
}

// Transform a normal and normalize it.
func (t Transform) Normal(n Vec3) Vec3 {
	return t.NormalM.Mul3x1(n).Normalize()
}
