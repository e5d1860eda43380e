package accel

import "github.com/achilleasa/prism/types"

// Determinants below this threshold are treated as parallel rays.
const detEpsilon = 1e-8

// Triangle is a world space triangle reference with precomputed edges.
type Triangle struct {
	Primitive int
	Face      int

	P1     types.Vec3
	E1, E2 types.Vec3
	Bound  types.Bound
}

// Create a triangle reference.
func NewTriangle(primitive, face int, p1, p2, p3 types.Vec3) Triangle {
	return Triangle{
		Primitive: primitive,
		Face:      face,
		P1:        p1,
		E1:        p2.Sub(p1),
		E2:        p3.Sub(p1),
		Bound:     types.EmptyBound().MergePoint(p1).MergePoint(p2).MergePoint(p3),
	}
}

// Triangle vertices.
func (tri *Triangle) Vertices() (p1, p2, p3 types.Vec3) {
	return tri.P1, tri.P1.Add(tri.E1), tri.P1.Add(tri.E2)
}

// Ray-triangle test (Moller-Trumbore). Returns the distance and the
// barycentric coordinates of the hit if it lies within [tmin, tmax].
// Degenerate triangles never report a hit.
func (tri *Triangle) Isect(ray types.Ray, tmin, tmax float32) (float32, types.Vec2, bool) {
	p := ray.D.Cross(tri.E2)
	tv := ray.O.Sub(tri.P1)
	q := tv.Cross(tri.E1)
	det := tri.E1.Dot(p)

	absDet, sign := det, float32(1)
	if det < 0 {
		absDet, sign = -det, -1
	}

	u := tv.Dot(p) * sign
	v := ray.D.Dot(q) * sign
	if absDet < detEpsilon || u < 0 || v < 0 || u+v > absDet {
		return 0, types.Vec2{}, false
	}

	t := tri.E2.Dot(q) / det
	if t < tmin || t > tmax {
		return 0, types.Vec2{}, false
	}
	return t, types.Vec2{u / absDet, v / absDet}, true
}
