package scene

import "github.com/achilleasa/prism/types"

// PointGeometry describes a point inside the scene. Three kinds of points
// exist: points on a surface, degenerate points with no surface
// differential (e.g. a pinhole) and points at infinity (e.g. an
// environment light) which only carry a direction.
type PointGeometry struct {
	// True if the point has no surface differential.
	Degenerate bool

	// True if the point lies at infinity. Only Wo is meaningful.
	Infinite bool

	// Position. Undefined for points at infinity.
	P types.Vec3

	// Shading normal. Only meaningful for points on a surface.
	N types.Vec3

	// Direction from the point at infinity into the scene.
	Wo types.Vec3

	// Texture coordinates.
	T types.Vec2

	// Tangent vectors forming an orthonormal basis with N.
	U, V types.Vec3
}

// Create a degenerate point.
func MakeDegenerate(p types.Vec3) PointGeometry {
	return PointGeometry{
		Degenerate: true,
		P:          p,
	}
}

// Create a point at infinity; wo is the direction from the point towards
// the scene.
func MakeInfinite(wo types.Vec3) PointGeometry {
	return PointGeometry{
		Infinite: true,
		Wo:       wo,
	}
}

// Create a point on a surface with normal n and texture coordinates t.
func MakeOnSurface(p, n types.Vec3, t types.Vec2) PointGeometry {
	u, v := types.OrthonormalBasis(n)
	return PointGeometry{
		P: p,
		N: n,
		T: t,
		U: u,
		V: v,
	}
}

// Returns true if w1 and w2 lie on opposite sides of the surface.
func (g PointGeometry) Opposite(w1, w2 types.Vec3) bool {
	return w1.Dot(g.N)*w2.Dot(g.N) <= 0
}

// Get an orthonormal basis (n, u, v) whose normal faces the same side of
// the surface as wi.
func (g PointGeometry) OrthonormalBasis(wi types.Vec3) (n, u, v types.Vec3) {
	if wi.Dot(g.N) > 0 {
		return g.N, g.U, g.V
	}
	return g.N.Neg(), g.U, g.V.Neg()
}

// Geometry term between two finite points. Degenerate points contribute a
// unit cosine.
func GeometryTerm(g1, g2 PointGeometry) float32 {
	d := g2.P.Sub(g1.P)
	l2 := d.Dot(d)
	if l2 == 0 {
		return 0
	}
	d = d.Mul(1 / types.SafeSqrt(l2))

	cos1, cos2 := float32(1), float32(1)
	if !g1.Degenerate {
		cos1 = abs32(g1.N.Dot(d))
	}
	if !g2.Degenerate {
		cos2 = abs32(g2.N.Dot(d))
	}
	return cos1 * cos2 / l2
}

// TerminatorType marks virtual points from which primary rays are sampled.
type TerminatorType uint8

const (
	NoTerminator TerminatorType = iota
	CameraTerminator
)

// CameraCond carries the raster window and aspect ratio used for sampling
// primary rays.
type CameraCond struct {
	// Normalized raster window (x, y, w, h).
	Window      types.Vec4
	AspectRatio float32
}

// FullWindow covers the entire raster.
var FullWindow = types.Vec4{0, 0, 1, 1}

// SurfacePoint is a point in the scene together with a reference to the
// primitive it belongs to.
type SurfacePoint struct {
	// Index of the originating primitive or -1 for terminators.
	Primitive int

	// Hit or sampled face; -1 if not applicable.
	Face int

	Geom PointGeometry

	// True if the point is a light or camera path endpoint.
	Endpoint bool

	Terminator TerminatorType
	Camera     CameraCond
}

// Create a point on the surface of a primitive.
func MakeSurfacePoint(primitive, face int, geom PointGeometry) SurfacePoint {
	return SurfacePoint{Primitive: primitive, Face: face, Geom: geom}
}

// Create a light path endpoint.
func MakeLightEndpoint(primitive, face int, geom PointGeometry) SurfacePoint {
	return SurfacePoint{Primitive: primitive, Face: face, Geom: geom, Endpoint: true}
}

// Create a camera path endpoint.
func MakeCameraEndpoint(primitive int, geom PointGeometry, window types.Vec4, aspectRatio float32) SurfacePoint {
	return SurfacePoint{
		Primitive: primitive,
		Face:      -1,
		Geom:      geom,
		Endpoint:  true,
		Camera:    CameraCond{Window: window, AspectRatio: aspectRatio},
	}
}

// Create a virtual point from which SampleRay samples primary rays through
// window.
func MakeCameraTerminator(window types.Vec4, aspectRatio float32) SurfacePoint {
	return SurfacePoint{
		Primitive:  -1,
		Face:       -1,
		Terminator: CameraTerminator,
		Camera:     CameraCond{Window: window, AspectRatio: aspectRatio},
	}
}

// RaySample is a sampled ray together with its throughput weight
// (contribution divided by pdf).
type RaySample struct {
	Sp     SurfacePoint
	Wo     types.Vec3
	Weight types.Vec3
}

// Get the sampled ray. Panics if the sampled point lies at infinity.
func (rs RaySample) Ray() types.Ray {
	if rs.Sp.Geom.Infinite {
		panic("scene: Ray called on a sample at infinity")
	}
	return types.Ray{O: rs.Sp.Geom.P, D: rs.Wo}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
