// Package light implements emitters.
package light

import (
	"errors"
	"fmt"

	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/sampling"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
)

var ErrInvalidLight = errors.New("light: invalid light")

// AreaParams configures an Area light. The mesh is resolved separately by
// the caller.
type AreaParams struct {
	// Emitted radiance.
	Ke types.Vec3 `mapstructure:"Ke"`

	// Locator of the emitting mesh.
	Mesh string `mapstructure:"mesh"`
}

// Area is a one-sided diffuse emitter covering a triangle mesh. Points are
// sampled by selecting a triangle proportionally to its object space area
// and then sampling the triangle uniformly.
type Area struct {
	ke   types.Vec3
	mesh scene.Mesh
	dist sampling.Dist
}

// Decode area light params from props.
func DecodeAreaParams(props config.Props) (AreaParams, error) {
	var params AreaParams
	if err := config.Decode(props, &params); err != nil {
		return params, err
	}
	if params.Mesh == "" {
		return params, fmt.Errorf("%w: area light requires a mesh", ErrInvalidLight)
	}
	return params, nil
}

// Create an area light emitting ke from the front faces of mesh.
func NewArea(ke types.Vec3, mesh scene.Mesh) (*Area, error) {
	if mesh == nil || mesh.NumTriangles() == 0 {
		return nil, fmt.Errorf("%w: area light requires a non-empty mesh", ErrInvalidLight)
	}

	l := &Area{ke: ke, mesh: mesh}
	mesh.ForeachTriangle(func(_ int, tri scene.MeshTri) {
		l.dist.Add(triangleArea(tri.P1, tri.P2, tri.P3))
	})
	if l.dist.Sum() == 0 {
		return nil, fmt.Errorf("%w: area light mesh has zero area", ErrInvalidLight)
	}
	l.dist.Normalize()
	return l, nil
}

func (l *Area) IsSpecular(scene.PointGeometry) bool {
	return false
}

func (l *Area) IsInfinite() bool {
	return false
}

// Sample a point on the light as seen from geom.
func (l *Area) Sample(rng *sampling.Rng, geom scene.PointGeometry, transform types.Transform) (scene.LightSample, bool) {
	face := l.dist.Sample(rng.U())
	if face < 0 {
		return scene.LightSample{}, false
	}
	tri := l.mesh.TriangleAt(face)
	p := transform.Point(types.MixBarycentric(tri.P1, tri.P2, tri.P3, sampling.UniformTriangle(rng.U2())))
	n := transform.Normal(tri.P2.Sub(tri.P1).Cross(tri.P3.Sub(tri.P1)))
	geomL := scene.MakeOnSurface(p, n, types.Vec2{})

	wo := geom.P.Sub(p).Normalize()
	if wo.IsZero() {
		return scene.LightSample{}, false
	}

	pdf := l.Pdf(geom, geomL, face, transform, wo)
	if pdf == 0 {
		return scene.LightSample{}, false
	}
	return scene.LightSample{
		Geom:   geomL,
		Face:   face,
		Wo:     wo,
		Weight: l.Eval(geomL, wo).Mul(1 / pdf),
	}, true
}

// Pdf of sampling geomL on face from geom, in projected solid angle measure.
func (l *Area) Pdf(geom, geomL scene.PointGeometry, face int, transform types.Transform, _ types.Vec3) float32 {
	if face < 0 || face >= l.mesh.NumTriangles() {
		return 0
	}
	g := scene.GeometryTerm(geom, geomL)
	if g == 0 {
		return 0
	}

	tri := l.mesh.TriangleAt(face)
	area := triangleArea(transform.Point(tri.P1), transform.Point(tri.P2), transform.Point(tri.P3))
	if area == 0 {
		return 0
	}
	return l.dist.Pmf(face) / area / g
}

// Radiance leaving the front face of the light.
func (l *Area) Eval(geomL scene.PointGeometry, wo types.Vec3) types.Vec3 {
	if wo.Dot(geomL.N) <= 0 {
		return types.Vec3{}
	}
	return l.ke
}

// Estimate the emitted power using the average of Ke.
func (l *Area) Power(transform types.Transform) float32 {
	var area float32
	l.mesh.ForeachTriangle(func(_ int, tri scene.MeshTri) {
		area += triangleArea(transform.Point(tri.P1), transform.Point(tri.P2), transform.Point(tri.P3))
	})
	return types.Pi * area * (l.ke[0] + l.ke[1] + l.ke[2]) / 3
}

func triangleArea(p1, p2, p3 types.Vec3) float32 {
	return p2.Sub(p1).Cross(p3.Sub(p1)).Len() * 0.5
}
