package bvh

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/prism/accel"
	"github.com/achilleasa/prism/accel/naive"
	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/types"
)

type triangleList [][3]types.Vec3

func (l triangleList) ForeachTriangle(fn func(primitive, face int, p1, p2, p3 types.Vec3)) {
	for face, tri := range l {
		fn(face%3, face, tri[0], tri[1], tri[2])
	}
}

func randomTriangles(rng *rand.Rand, count int) triangleList {
	rv := func(scale float32) types.Vec3 {
		return types.XYZ(
			(rng.Float32()*2-1)*scale,
			(rng.Float32()*2-1)*scale,
			(rng.Float32()*2-1)*scale,
		)
	}

	tris := make(triangleList, count)
	for i := range tris {
		center := rv(10)
		tris[i] = [3]types.Vec3{center.Add(rv(1)), center.Add(rv(1)), center.Add(rv(1))}
	}
	return tris
}

func mustBuild(t *testing.T, params Params, src accel.TriangleSource) *BVH {
	bvh, err := New(params)
	if err != nil {
		t.Fatal(err)
	}
	if err = bvh.Build(src); err != nil {
		t.Fatal(err)
	}
	return bvh
}

func TestLeafLayout(t *testing.T) {
	type boxSpec struct {
		min types.Vec3
		max types.Vec3
	}

	boxSpecs := []boxSpec{
		{types.Vec3{-2, 0, -2}, types.Vec3{-1, 1, -1}},
		{types.Vec3{1, 0, -2}, types.Vec3{2, 1, -1}},
		{types.Vec3{-2, 0, 1}, types.Vec3{-1, 1, 2}},
		{types.Vec3{1, 0, 1}, types.Vec3{2, 1, 2}},
	}

	// Each triangle spans the diagonal of its box so its bound matches it.
	src := make(triangleList, len(boxSpecs))
	for idx, bs := range boxSpecs {
		src[idx] = [3]types.Vec3{bs.min, types.XYZ(bs.max[0], bs.min[1], bs.min[2]), bs.max}
	}

	type spec struct {
		maxLeaf   int
		expNodes  int
		expLeaves int
		expItems  uint32
	}
	specs := []spec{
		// Partition each item in a single leaf
		{1, 7, 4, 1},
		// Partition two items in a single leaf
		{2, 3, 2, 2},
		// Everything fits in the root
		{4, 1, 1, 4},
	}

	for index, s := range specs {
		params := DefaultParams()
		params.MaxLeafTriangles = s.maxLeaf
		bvh := mustBuild(t, params, src)

		nodes := bvh.Nodes()
		if len(nodes) != s.expNodes {
			t.Fatalf("[spec %d] expected bvh tree to have %d nodes; got %d", index, s.expNodes, len(nodes))
		}

		leaves := 0
		for _, node := range nodes {
			if !node.IsLeaf() {
				continue
			}
			leaves++
			if _, count := node.Triangles(); count != s.expItems {
				t.Fatalf("[spec %d] expected leaf to contain %d triangles; got %d", index, s.expItems, count)
			}
		}
		if leaves != s.expLeaves {
			t.Fatalf("[spec %d] expected %d leaves; got %d", index, s.expLeaves, leaves)
		}
		if stats := bvh.Stats(); stats.Leaves != s.expLeaves || stats.Triangles != 4 {
			t.Fatalf("[spec %d] unexpected stats %+v", index, stats)
		}
	}
}

func TestEmptyScene(t *testing.T) {
	bvh := mustBuild(t, DefaultParams(), triangleList{})

	nodes := bvh.Nodes()
	if len(nodes) != 1 || !nodes[0].IsLeaf() {
		t.Fatalf("expected a single empty leaf; got %v", nodes)
	}
	if _, hit := bvh.Intersect(types.Ray{O: types.XYZ(0, 0, -1), D: types.XYZ(0, 0, 1)}, 0, types.Inf); hit {
		t.Fatal("expected query on empty scene to miss")
	}
}

func TestDegenerateTriangles(t *testing.T) {
	p := types.XYZ(1, 1, 1)
	src := triangleList{
		// Collapsed to a point
		{p, p, p},
		// Collapsed to a line
		{types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(2, 0, 0)},
		// Proper triangle
		{types.XYZ(-1, -1, 5), types.XYZ(1, -1, 5), types.XYZ(0, 1, 5)},
	}
	// Add many coincident triangles to exercise the zero centroid extent path.
	for i := 0; i < 2*maxLeafHardCap; i++ {
		src = append(src, [3]types.Vec3{p, p, p})
	}

	bvh := mustBuild(t, DefaultParams(), src)
	hit, ok := bvh.Intersect(types.Ray{O: types.XYZ(0, 0, 0), D: types.XYZ(0, 0, 1)}, 0, types.Inf)
	if !ok {
		t.Fatal("expected ray to hit the proper triangle")
	}
	if hit.Face != 2 || math.Abs(float64(hit.T-5)) > 1e-5 {
		t.Fatalf("expected hit on face 2 at t=5; got %+v", hit)
	}

	bound := bvh.Nodes()[0].Bound()
	if bound.Min != types.XYZ(-1, -1, 0) || bound.Max != types.XYZ(2, 1, 5) {
		t.Fatalf("expected degenerate bounds to be merged into the root bound; got %v - %v", bound.Min, bound.Max)
	}
}

func TestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))
	src := randomTriangles(rng, 800)

	oracle := naive.New()
	if err := oracle.Build(src); err != nil {
		t.Fatal(err)
	}

	type spec struct {
		params Params
	}
	specs := []spec{
		{DefaultParams()},
		{Params{MaxLeafTriangles: 4, Bins: 8, TraversalCost: 1, IsectCost: 2}},
		{Params{MaxLeafTriangles: 16, Bins: 2, TraversalCost: 0.5, IsectCost: 1}},
	}

	for index, s := range specs {
		bvh := mustBuild(t, s.params, src)

		for i := 0; i < 1500; i++ {
			origin := types.XYZ(rng.Float32()*30-15, rng.Float32()*30-15, rng.Float32()*30-15)
			target := types.XYZ(rng.Float32()*20-10, rng.Float32()*20-10, rng.Float32()*20-10)
			ray := types.Ray{O: origin, D: target.Sub(origin).Normalize()}

			tmax := types.Inf
			if i%4 == 0 {
				tmax = rng.Float32() * 20
			}

			exp, expOk := oracle.Intersect(ray, 0, tmax)
			got, gotOk := bvh.Intersect(ray, 0, tmax)
			if expOk != gotOk {
				t.Fatalf("[spec %d] ray %d: expected hit=%t; got hit=%t", index, i, expOk, gotOk)
			}
			if !expOk {
				continue
			}
			if math.Abs(float64(exp.T-got.T)) > 1e-4 {
				t.Fatalf("[spec %d] ray %d: expected t=%f; got t=%f", index, i, exp.T, got.T)
			}
			if exp.T != got.T {
				continue
			}
			if exp.Face != got.Face || exp.Primitive != got.Primitive {
				t.Fatalf("[spec %d] ray %d: expected face %d/%d; got %d/%d", index, i, exp.Primitive, exp.Face, got.Primitive, got.Face)
			}
		}
	}
}

func TestLargeBuildUsesParallelScoring(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	src := randomTriangles(rng, 3*parallelScoreThreshold)

	bvh1 := mustBuild(t, DefaultParams(), src)
	bvh2 := mustBuild(t, DefaultParams(), src)
	if len(bvh1.Nodes()) != len(bvh2.Nodes()) {
		t.Fatalf("expected deterministic builds; got %d and %d nodes", len(bvh1.Nodes()), len(bvh2.Nodes()))
	}
	if stats := bvh1.Stats(); stats.Triangles != len(src) {
		t.Fatalf("expected %d triangles; got %+v", len(src), stats)
	}

	var covered uint32
	for _, node := range bvh1.Nodes() {
		if node.IsLeaf() {
			_, count := node.Triangles()
			covered += count
		}
	}
	if covered != uint32(len(src)) {
		t.Fatalf("expected leaves to cover %d triangles; got %d", len(src), covered)
	}
}

func TestRegistry(t *testing.T) {
	a, err := accel.New(Name, config.Props{"max_leaf_triangles": 4, "bins": 16})
	if err != nil {
		t.Fatal(err)
	}
	if params := a.(*BVH).params; params.MaxLeafTriangles != 4 || params.Bins != 16 || params.IsectCost != 1 {
		t.Fatalf("unexpected params %+v", params)
	}

	_, err = accel.New(Name, config.Props{"bins": 1})
	if !errors.Is(err, accel.ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams; got %v", err)
	}

	_, err = accel.New(Name, config.Props{"leaf": 1})
	if err == nil {
		t.Fatal("expected unknown parameter to be rejected")
	}
}
