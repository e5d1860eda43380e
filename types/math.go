package types

import "math"

const (
	// A value treated as infinity by intersection queries and bounds.
	Inf float32 = 1e10

	// Epsilon used for self-intersection offsets and visibility tests.
	Eps float32 = 1e-4

	Pi float32 = math.Pi

	// Tolerance used when comparing floats for equality.
	floatCmpEpsilon float32 = 1e-6
)

// Square root that clamps negative inputs to zero.
func SafeSqrt(v float32) float32 {
	if v <= 0 {
		return 0
	}
	return float32(math.Sqrt(float64(v)))
}

// Mix three values using barycentric coordinates uv; the first value gets
// weight 1-u-v.
func MixBarycentric(a, b, c Vec3, uv Vec2) Vec3 {
	return a.Mul(1 - uv[0] - uv[1]).Add(b.Mul(uv[0])).Add(c.Mul(uv[1]))
}

// Mix three 2D values using barycentric coordinates uv.
func MixBarycentric2(a, b, c Vec2, uv Vec2) Vec2 {
	return a.Mul(1 - uv[0] - uv[1]).Add(b.Mul(uv[0])).Add(c.Mul(uv[1]))
}

// Build an orthonormal basis (u, v) around unit vector n.
// Duff et al., "Building an Orthonormal Basis, Revisited" (2017).
func OrthonormalBasis(n Vec3) (u, v Vec3) {
	s := float32(math.Copysign(1, float64(n[2])))
	a := -1 / (s + n[2])
	b := n[0] * n[1] * a
	u = Vec3{1 + s*n[0]*n[0]*a, s * b, -s * n[0]}
	v = Vec3{b, s + n[1]*n[1]*a, -n[1]}
	return u, v
}

// Reflect w around normal n. Both point away from the surface.
func Reflection(w, n Vec3) Vec3 {
	return n.Mul(2 * w.Dot(n)).Sub(w)
}

// Returns true if two float32 values are within floatCmpEpsilon.
func ApproxEqual(a, b float32) bool {
	return abs32(a-b) <= floatCmpEpsilon
}
