// Package mesh provides triangle meshes defined by raw vertex and index
// arrays.
package mesh

import (
	"errors"
	"fmt"

	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
)

var ErrInvalidMesh = errors.New("mesh: invalid mesh data")

// Params describes a raw mesh. Positions, normals and uvs are flat arrays
// with 3, 3 and 2 components per vertex respectively; faces is a flat array
// of vertex index triplets. Normals and uvs are optional but, if present,
// must define one entry per vertex.
type Params struct {
	Positions []float32 `mapstructure:"positions"`
	Normals   []float32 `mapstructure:"normals"`
	UVs       []float32 `mapstructure:"uvs"`
	Faces     []int     `mapstructure:"faces"`
}

// Raw is an indexed triangle mesh in object space.
type Raw struct {
	ps []types.Vec3
	ns []types.Vec3
	ts []types.Vec2
	fs [][3]int
}

// Create a mesh from decoded props.
func FromProps(props config.Props) (*Raw, error) {
	var params Params
	if err := config.Decode(props, &params); err != nil {
		return nil, err
	}
	return New(params)
}

// Create a mesh from params.
func New(params Params) (*Raw, error) {
	if len(params.Positions) == 0 || len(params.Positions)%3 != 0 {
		return nil, fmt.Errorf("%w: positions must hold a multiple of 3 values", ErrInvalidMesh)
	}
	if len(params.Faces)%3 != 0 {
		return nil, fmt.Errorf("%w: faces must hold a multiple of 3 indices", ErrInvalidMesh)
	}

	numVerts := len(params.Positions) / 3
	m := &Raw{
		ps: make([]types.Vec3, numVerts),
		fs: make([][3]int, len(params.Faces)/3),
	}
	for i := range m.ps {
		m.ps[i] = types.Vec3{params.Positions[3*i], params.Positions[3*i+1], params.Positions[3*i+2]}
	}

	if len(params.Normals) != 0 {
		if len(params.Normals) != 3*numVerts {
			return nil, fmt.Errorf("%w: expected %d normal components; got %d", ErrInvalidMesh, 3*numVerts, len(params.Normals))
		}
		m.ns = make([]types.Vec3, numVerts)
		for i := range m.ns {
			m.ns[i] = types.Vec3{params.Normals[3*i], params.Normals[3*i+1], params.Normals[3*i+2]}
		}
	}

	if len(params.UVs) != 0 {
		if len(params.UVs) != 2*numVerts {
			return nil, fmt.Errorf("%w: expected %d uv components; got %d", ErrInvalidMesh, 2*numVerts, len(params.UVs))
		}
		m.ts = make([]types.Vec2, numVerts)
		for i := range m.ts {
			m.ts[i] = types.Vec2{params.UVs[2*i], params.UVs[2*i+1]}
		}
	}

	for f := range m.fs {
		for k := 0; k < 3; k++ {
			idx := params.Faces[3*f+k]
			if idx < 0 || idx >= numVerts {
				return nil, fmt.Errorf("%w: face %d references vertex %d; mesh has %d vertices", ErrInvalidMesh, f, idx, numVerts)
			}
			m.fs[f][k] = idx
		}
	}

	return m, nil
}

// Invoke fn for each triangle in face order.
func (m *Raw) ForeachTriangle(fn func(face int, tri scene.MeshTri)) {
	for face := range m.fs {
		fn(face, m.TriangleAt(face))
	}
}

// Get the triangle for a face.
func (m *Raw) TriangleAt(face int) scene.MeshTri {
	f := m.fs[face]
	return scene.MeshTri{P1: m.ps[f[0]], P2: m.ps[f[1]], P3: m.ps[f[2]]}
}

// Interpolate the surface point at barycentric coordinates uv of face.
// Meshes without normals use the geometric normal.
func (m *Raw) SurfacePoint(face int, uv types.Vec2) scene.MeshPoint {
	f := m.fs[face]
	p1, p2, p3 := m.ps[f[0]], m.ps[f[1]], m.ps[f[2]]

	var mp scene.MeshPoint
	mp.P = types.MixBarycentric(p1, p2, p3, uv)
	if m.ns != nil {
		mp.N = types.MixBarycentric(m.ns[f[0]], m.ns[f[1]], m.ns[f[2]], uv).Normalize()
	}
	if mp.N.IsZero() {
		mp.N = p2.Sub(p1).Cross(p3.Sub(p1)).Normalize()
	}
	if m.ts != nil {
		mp.T = types.MixBarycentric2(m.ts[f[0]], m.ts[f[1]], m.ts[f[2]], uv)
	}
	return mp
}

func (m *Raw) NumTriangles() int {
	return len(m.fs)
}
