package sampling

import (
	"math"

	"github.com/achilleasa/prism/types"
)

// Map u to a cosine weighted direction in the local frame where +z is the
// surface normal. The pdf w.r.t. projected solid angle is 1/Pi.
func CosineHemisphere(u types.Vec2) types.Vec3 {
	d := concentricDisk(u)
	z := types.SafeSqrt(1 - d.Dot(d))
	return types.Vec3{d[0], d[1], z}
}

// Map u to a uniformly distributed direction on the unit sphere. The pdf
// w.r.t. solid angle is 1/(4*Pi).
func UniformSphere(u types.Vec2) types.Vec3 {
	z := 1 - 2*u[0]
	r := types.SafeSqrt(1 - z*z)
	phi := 2 * math.Pi * float64(u[1])
	return types.Vec3{r * float32(math.Cos(phi)), r * float32(math.Sin(phi)), z}
}

// Map u to uniformly distributed barycentric coordinates of a triangle.
func UniformTriangle(u types.Vec2) types.Vec2 {
	s := types.SafeSqrt(u[0])
	return types.Vec2{1 - s, u[1] * s}
}

// Shirley-Chiu concentric mapping from the unit square to the unit disk.
func concentricDisk(u types.Vec2) types.Vec2 {
	ux := 2*u[0] - 1
	uy := 2*u[1] - 1
	if ux == 0 && uy == 0 {
		return types.Vec2{}
	}

	var r, theta float64
	if math.Abs(float64(ux)) > math.Abs(float64(uy)) {
		r = float64(ux)
		theta = math.Pi / 4 * float64(uy/ux)
	} else {
		r = float64(uy)
		theta = math.Pi/2 - math.Pi/4*float64(ux/uy)
	}
	return types.Vec2{float32(r * math.Cos(theta)), float32(r * math.Sin(theta))}
}
