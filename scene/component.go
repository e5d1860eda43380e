package scene

import (
	"github.com/achilleasa/prism/sampling"
	"github.com/achilleasa/prism/types"
)

// MeshTri holds the object space positions of a mesh triangle.
type MeshTri struct {
	P1, P2, P3 types.Vec3
}

// MeshPoint is an interpolated object space point on a mesh.
type MeshPoint struct {
	P types.Vec3
	N types.Vec3
	T types.Vec2
}

// Mesh is a triangle mesh in object space.
type Mesh interface {
	// Invoke fn for each triangle in face order.
	ForeachTriangle(fn func(face int, tri MeshTri))

	// Get a triangle by face index.
	TriangleAt(face int) MeshTri

	// Interpolate the point at barycentric coordinates uv of a face.
	SurfacePoint(face int, uv types.Vec2) MeshPoint

	NumTriangles() int
}

// MaterialSample is a direction sampled from a BSDF.
type MaterialSample struct {
	Wo     types.Vec3
	Weight types.Vec3
}

// Material describes how light scatters at a surface. Directions point away
// from the surface; wi is the incident direction and wo the outgoing one.
// Pdfs are expressed in projected solid angle measure.
type Material interface {
	IsSpecular(geom PointGeometry) bool
	Sample(rng *sampling.Rng, geom PointGeometry, wi types.Vec3) (MaterialSample, bool)
	Reflectance(geom PointGeometry) (types.Vec3, bool)
	Pdf(geom PointGeometry, wi, wo types.Vec3) float32
	Eval(geom PointGeometry, wi, wo types.Vec3) types.Vec3
}

// LightSample is a point sampled on a light.
type LightSample struct {
	Geom PointGeometry

	// Sampled face or -1 for lights without geometry.
	Face int

	// Direction from the light towards the receiving point.
	Wo types.Vec3

	// Emitted radiance divided by the pdf.
	Weight types.Vec3
}

// Light is an emitter. Sample and Pdf operate in the projected solid angle
// measure at the receiving point; transform maps light space to world space.
type Light interface {
	IsSpecular(geom PointGeometry) bool
	IsInfinite() bool
	Sample(rng *sampling.Rng, geom PointGeometry, transform types.Transform) (LightSample, bool)
	Pdf(geom, geomL PointGeometry, face int, transform types.Transform, wo types.Vec3) float32

	// Emitted radiance from geomL in direction wo.
	Eval(geomL PointGeometry, wo types.Vec3) types.Vec3
}

// PowerEstimator is implemented by lights that can estimate their emitted
// power. It is used for power weighted light selection.
type PowerEstimator interface {
	Power(transform types.Transform) float32
}

// CameraSample is a sampled primary ray.
type CameraSample struct {
	Geom   PointGeometry
	Wo     types.Vec3
	Weight types.Vec3
}

// Camera generates primary rays. Raster positions are normalized to
// [0, 1]^2.
type Camera interface {
	IsSpecular(geom PointGeometry) bool
	PrimaryRay(rp types.Vec2, aspectRatio float32) types.Ray
	SamplePrimaryRay(rng *sampling.Rng, window types.Vec4, aspectRatio float32) (CameraSample, bool)
	Pdf(wo types.Vec3, aspectRatio float32) float32
	Eval(wo types.Vec3, aspectRatio float32) types.Vec3
	RasterPosition(wo types.Vec3, aspectRatio float32) (types.Vec2, bool)
}
