package types

import "testing"

func TestEmptyBound(t *testing.T) {
	b := EmptyBound()
	if !b.IsEmpty() {
		t.Fatal("expected empty bound to report IsEmpty")
	}
	if b.SurfaceArea() != 0 {
		t.Fatalf("expected empty bound area to be 0; got %f", b.SurfaceArea())
	}
	if b.Isect(Ray{O: XYZ(0, 0, -5), D: XYZ(0, 0, 1)}, 0, Inf) {
		t.Fatal("expected ray to miss empty bound")
	}

	b = b.MergePoint(XYZ(1, 2, 3))
	if b.Min != XYZ(1, 2, 3) || b.Max != XYZ(1, 2, 3) {
		t.Fatalf("expected bound to collapse to merged point; got %v - %v", b.Min, b.Max)
	}
}

func TestBoundMerge(t *testing.T) {
	b1 := Bound{Min: XYZ(-1, -1, -1), Max: XYZ(0, 0, 0)}
	b2 := Bound{Min: XYZ(0, 0, 0), Max: XYZ(2, 1, 1)}

	b := b1.Merge(b2)
	if b.Min != XYZ(-1, -1, -1) || b.Max != XYZ(2, 1, 1) {
		t.Fatalf("unexpected merged bound %v - %v", b.Min, b.Max)
	}
	if c := b.Center(); c != XYZ(0.5, 0, 0) {
		t.Fatalf("expected center {0.5, 0, 0}; got %v", c)
	}
	// 2*(3*2 + 2*2 + 2*3)
	if area := b.SurfaceArea(); area != 32 {
		t.Fatalf("expected surface area 32; got %f", area)
	}
	if axis := b.LongestAxis(); axis != 0 {
		t.Fatalf("expected longest axis 0; got %d", axis)
	}
}

func TestBoundIsect(t *testing.T) {
	unit := Bound{Min: XYZ(-1, -1, -1), Max: XYZ(1, 1, 1)}

	type spec struct {
		ray        Ray
		tmin, tmax float32
		exp        bool
	}
	specs := []spec{
		// Ray through the center from outside
		{Ray{O: XYZ(0, 0, -5), D: XYZ(0, 0, 1)}, 0, Inf, true},
		// Ray pointing away
		{Ray{O: XYZ(0, 0, -5), D: XYZ(0, 0, -1)}, 0, Inf, false},
		// Ray too short to reach the box
		{Ray{O: XYZ(0, 0, -5), D: XYZ(0, 0, 1)}, 0, 3.9, false},
		// Interval starts past the box
		{Ray{O: XYZ(0, 0, -5), D: XYZ(0, 0, 1)}, 6.5, Inf, false},
		// Origin inside the box
		{Ray{O: XYZ(0, 0, 0), D: XYZ(1, 0, 0)}, 0, Inf, true},
		// Axis-parallel ray passing outside the slab
		{Ray{O: XYZ(0, 2, -5), D: XYZ(0, 0, 1)}, 0, Inf, false},
		// Axis-parallel ray inside the slab
		{Ray{O: XYZ(0.5, 0.5, -5), D: XYZ(0, 0, 1)}, 0, Inf, true},
		// Diagonal miss
		{Ray{O: XYZ(3, 0, -5), D: XYZ(0, 1, 1).Normalize()}, 0, Inf, false},
	}

	for index, s := range specs {
		if got := unit.Isect(s.ray, s.tmin, s.tmax); got != s.exp {
			t.Fatalf("[spec %d] expected Isect to return %t; got %t", index, s.exp, got)
		}
	}
}

func TestBoundIsectRange(t *testing.T) {
	unit := Bound{Min: XYZ(-1, -1, -1), Max: XYZ(1, 1, 1)}
	t0, t1, ok := unit.IsectRange(Ray{O: XYZ(0, 0, -5), D: XYZ(0, 0, 1)}, 0, Inf)
	if !ok {
		t.Fatal("expected ray to hit bound")
	}
	if !ApproxEqual(t0, 4) || !ApproxEqual(t1, 6) {
		t.Fatalf("expected clipped range [4, 6]; got [%f, %f]", t0, t1)
	}
}
