package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
)

func quadProps() config.Props {
	return config.Props{
		"positions": []interface{}{0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 1.0, 1.0, 0.0, 0.0, 1.0, 0.0},
		"uvs":       []interface{}{0.0, 0.0, 1.0, 0.0, 1.0, 1.0, 0.0, 1.0},
		"faces":     []interface{}{0.0, 1.0, 2.0, 0.0, 2.0, 3.0},
	}
}

func TestFromProps(t *testing.T) {
	m, err := FromProps(quadProps())
	if err != nil {
		t.Fatal(err)
	}
	if m.NumTriangles() != 2 {
		t.Fatalf("expected 2 triangles; got %d", m.NumTriangles())
	}

	var faces []int
	m.ForeachTriangle(func(face int, tri scene.MeshTri) {
		faces = append(faces, face)
	})
	if len(faces) != 2 || faces[0] != 0 || faces[1] != 1 {
		t.Fatalf("expected faces [0 1]; got %v", faces)
	}

	tri := m.TriangleAt(1)
	if tri.P3 != (types.Vec3{0, 1, 0}) {
		t.Fatalf("expected third vertex of face 1 to be {0,1,0}; got %v", tri.P3)
	}
}

func TestSurfacePoint(t *testing.T) {
	m, err := FromProps(quadProps())
	if err != nil {
		t.Fatal(err)
	}

	mp := m.SurfacePoint(0, types.Vec2{0.25, 0.5})
	expP := types.Vec3{0.75, 0.5, 0}
	if mp.P.Distance(expP) > 1e-6 {
		t.Fatalf("expected point %v; got %v", expP, mp.P)
	}
	if mp.N != (types.Vec3{0, 0, 1}) {
		t.Fatalf("expected geometric normal {0,0,1}; got %v", mp.N)
	}
	if math.Abs(float64(mp.T[0]-0.75)) > 1e-6 || math.Abs(float64(mp.T[1]-0.5)) > 1e-6 {
		t.Fatalf("expected uv {0.75,0.5}; got %v", mp.T)
	}
}

func TestInterpolatedNormals(t *testing.T) {
	m, err := New(Params{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 1, 0},
		Faces:     []int{0, 1, 2},
	})
	if err != nil {
		t.Fatal(err)
	}

	mp := m.SurfacePoint(0, types.Vec2{0, 0.5})
	if math.Abs(float64(mp.N.Len()-1)) > 1e-5 {
		t.Fatalf("expected unit normal; got %v", mp.N)
	}
	if mp.N[1] <= 0 || mp.N[2] <= 0 {
		t.Fatalf("expected normal to blend {0,0,1} and {0,1,0}; got %v", mp.N)
	}
}

func TestInvalidMesh(t *testing.T) {
	specs := []Params{
		{},
		{Positions: []float32{0, 0}},
		{Positions: []float32{0, 0, 0}, Faces: []int{0, 0}},
		{Positions: []float32{0, 0, 0}, Faces: []int{0, 0, 1}},
		{Positions: []float32{0, 0, 0}, Faces: []int{0, 0, 0}, Normals: []float32{0, 1}},
		{Positions: []float32{0, 0, 0}, Faces: []int{0, 0, 0}, UVs: []float32{0}},
	}

	for specIndex, spec := range specs {
		_, err := New(spec)
		if !errors.Is(err, ErrInvalidMesh) {
			t.Fatalf("[spec %d] expected ErrInvalidMesh; got %v", specIndex, err)
		}
	}
}

func TestUnknownProp(t *testing.T) {
	props := quadProps()
	props["colors"] = []interface{}{1.0}
	if _, err := FromProps(props); err == nil {
		t.Fatal("expected an error for an unknown property")
	}
}
