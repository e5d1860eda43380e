package types

// A ray with origin O and direction D. D is expected to be normalized.
type Ray struct {
	O Vec3
	D Vec3
}

// Get the point at parametric distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.O.Add(r.D.Mul(t))
}
