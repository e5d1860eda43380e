// Package accel defines the acceleration structure contract used by the
// scene for nearest-hit ray queries together with a name-keyed registry of
// backend implementations.
package accel

import (
	"time"

	"github.com/achilleasa/prism/types"
)

// TriangleSource enumerates world space triangles in primitive then face
// order. It is implemented by the scene.
type TriangleSource interface {
	ForeachTriangle(fn func(primitive, face int, p1, p2, p3 types.Vec3))
}

// Hit describes the nearest intersection found by a query.
type Hit struct {
	// Distance along the ray.
	T float32

	// Barycentric coordinates of the hit; the hit point equals
	// p1*(1-u-v) + p2*u + p3*v.
	UV types.Vec2

	Primitive int
	Face      int
}

// Accel is implemented by all acceleration structure backends. Build may be
// called more than once; each call discards the previous index. Intersect
// must be safe for concurrent use once Build returns.
type Accel interface {
	Build(src TriangleSource) error
	Intersect(ray types.Ray, tmin, tmax float32) (Hit, bool)
}

// Stats summarizes a built acceleration structure.
type Stats struct {
	Triangles int
	Nodes     int
	Leaves    int
	MaxDepth  int
	BuildTime time.Duration
}

// StatsProvider is optionally implemented by backends that can report
// statistics about their last build.
type StatsProvider interface {
	Stats() Stats
}

// Collect all triangles emitted by src.
func Gather(src TriangleSource) []Triangle {
	tris := make([]Triangle, 0)
	src.ForeachTriangle(func(primitive, face int, p1, p2, p3 types.Vec3) {
		tris = append(tris, NewTriangle(primitive, face, p1, p2, p3))
	})
	return tris
}
