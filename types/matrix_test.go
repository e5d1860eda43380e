package types

import (
	"math"
	"testing"
)

func TestMatrixInverse(t *testing.T) {
	m := Translate3D(1, 2, 3).Mul4(QuatFromAxisAngle(XYZ(0, 1, 0), 0.7).Mat4()).Mul4(Scale3D(2, 3, 4))
	got := m.Mul4(m.Inv())
	if !got.ApproxEqual(Ident4(), 1e-5) {
		t.Fatalf("expected M * M^-1 to be identity; got %v", got)
	}

	if det := Scale3D(2, 3, 4).Det(); !near(det, 24) {
		t.Fatalf("expected determinant 24; got %f", det)
	}

	var singular Mat4
	if inv := singular.Inv(); inv != (Mat4{}) {
		t.Fatalf("expected singular inverse to be zero; got %v", inv)
	}
}

func TestTransformPoints(t *testing.T) {
	m := Translate3D(1, 0, 0).Mul4(Scale3D(2, 2, 2))
	p := m.MulPoint(XYZ(1, 1, 1))
	if p != XYZ(3, 2, 2) {
		t.Fatalf("expected {3, 2, 2}; got %v", p)
	}
	d := m.MulDir(XYZ(1, 1, 1))
	if d != XYZ(2, 2, 2) {
		t.Fatalf("expected translation to be ignored for directions; got %v", d)
	}
}

func TestQuaternionRotation(t *testing.T) {
	q := QuatFromAxisAngle(XYZ(0, 0, 2), math.Pi/2)
	v := q.Rotate(XYZ(1, 0, 0))
	if !near(v[0], 0) || !near(v[1], 1) || !near(v[2], 0) {
		t.Fatalf("expected {0, 1, 0}; got %v", v)
	}

	mv := q.Mat4().MulDir(XYZ(1, 0, 0))
	if !near(mv[0], v[0]) || !near(mv[1], v[1]) || !near(mv[2], v[2]) {
		t.Fatalf("expected matrix rotation %v to match quaternion rotation %v", mv, v)
	}
}

func TestTransformNormals(t *testing.T) {
	tr := NewTransform(Scale3D(1, 4, 1))
	if !near(tr.J, 4) {
		t.Fatalf("expected J = 4; got %f", tr.J)
	}

	// The surface spanned by (1,1,0) and z has normal (1,-1,0)/sqrt2
	n := tr.Normal(XYZ(1, -1, 0).Normalize())
	tangent := tr.Dir(XYZ(1, 1, 0))
	if dot := n.Dot(tangent); !near(dot, 0) {
		t.Fatalf("expected transformed normal to stay orthogonal to surface; dot = %f", dot)
	}
	if l := n.Len(); !near(l, 1) {
		t.Fatalf("expected normalized normal; len = %f", l)
	}
}

func TestOrthonormalBasis(t *testing.T) {
	for _, n := range []Vec3{XYZ(0, 0, 1), XYZ(0, 0, -1), XYZ(1, 2, 3).Normalize(), XYZ(-1, 0, -0.1).Normalize()} {
		u, v := OrthonormalBasis(n)
		if !near(u.Dot(v), 0) || !near(u.Dot(n), 0) || !near(v.Dot(n), 0) {
			t.Fatalf("expected orthogonal basis for %v; got u=%v v=%v", n, u, v)
		}
		if abs32(u.Len()-1) > 1e-5 || abs32(v.Len()-1) > 1e-5 {
			t.Fatalf("expected unit basis vectors for %v; got u=%v v=%v", n, u, v)
		}
	}
}

func near(a, b float32) bool {
	return abs32(a-b) <= 1e-5
}
