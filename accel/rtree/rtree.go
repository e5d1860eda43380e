// Package rtree implements an acceleration structure backed by an R-tree.
// Rays are marched through the scene bound in fixed segments; each segment
// is turned into a box query whose candidates are pre-filtered with a ray
// vs box test before the triangles themselves are tested.
package rtree

import (
	"fmt"
	"time"

	"github.com/achilleasa/prism/accel"
	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/types"
	"github.com/dhconnelly/rtreego"
)

const Name = "accel::rtree"

// Boxes are padded so that flat triangles and axis-aligned segments yield
// valid (non-zero volume) rectangles.
const boxPadding = 1e-4

// Tunable parameters.
type Params struct {
	// Node fan-out limits.
	MinChildren int `mapstructure:"min_children"`
	MaxChildren int `mapstructure:"max_children"`

	// Number of segments a ray is split into while marching through the
	// scene bound.
	Segments int `mapstructure:"segments"`
}

// Get the default parameters.
func DefaultParams() Params {
	return Params{
		MinChildren: 25,
		MaxChildren: 50,
		Segments:    16,
	}
}

func init() {
	accel.Register(Name, func(props config.Props) (accel.Accel, error) {
		params := DefaultParams()
		if err := config.Decode(props, &params); err != nil {
			return nil, err
		}
		return New(params)
	})
}

// An indexed triangle.
type item struct {
	tri  accel.Triangle
	rect rtreego.Rect
}

func (it *item) Bounds() rtreego.Rect {
	return it.rect
}

// RTree is an R-tree over triangle bounds.
type RTree struct {
	params Params
	tree   *rtreego.Rtree
	bound  types.Bound
	count  int
	stats  accel.Stats
}

// Create an unbuilt R-tree backend.
func New(params Params) (*RTree, error) {
	if params.MinChildren < 1 || params.MaxChildren < 2*params.MinChildren {
		return nil, fmt.Errorf("%w: expected 1 <= min_children and max_children >= 2*min_children", accel.ErrInvalidParams)
	}
	if params.Segments < 1 {
		return nil, fmt.Errorf("%w: segments must be >= 1", accel.ErrInvalidParams)
	}
	return &RTree{params: params}, nil
}

func (rt *RTree) Build(src accel.TriangleSource) error {
	start := time.Now()
	tree := rtreego.NewTree(3, rt.params.MinChildren, rt.params.MaxChildren)
	bound := types.EmptyBound()

	tris := accel.Gather(src)
	for i := range tris {
		rect, err := toRect(tris[i].Bound)
		if err != nil {
			return fmt.Errorf("accel: rtree: triangle %d/%d: %w", tris[i].Primitive, tris[i].Face, err)
		}
		tree.Insert(&item{tri: tris[i], rect: rect})
		bound = bound.Merge(tris[i].Bound)
	}

	rt.tree = tree
	rt.bound = bound
	rt.count = len(tris)
	rt.stats = accel.Stats{
		Triangles: len(tris),
		Nodes:     tree.Size(),
		MaxDepth:  tree.Depth(),
		BuildTime: time.Since(start),
	}
	return nil
}

func (rt *RTree) Stats() accel.Stats {
	return rt.stats
}

func (rt *RTree) Intersect(ray types.Ray, tmin, tmax float32) (accel.Hit, bool) {
	if rt.count == 0 {
		return accel.Hit{}, false
	}

	// Clip the query interval to the scene bound; this also turns
	// infinite rays into finite segments.
	t0, t1, ok := rt.bound.IsectRange(ray, tmin, tmax)
	if !ok {
		return accel.Hit{}, false
	}

	step := (t1 - t0) / float32(rt.params.Segments)
	for seg := 0; seg < rt.params.Segments; seg++ {
		segStart := t0 + step*float32(seg)
		segEnd := segStart + step
		if seg == rt.params.Segments-1 {
			segEnd = t1
		}

		// A hit inside this segment is the nearest one: any closer hit
		// would lie in this or an earlier segment.
		if hit, found := rt.intersectSegment(ray, tmin, tmax, segStart, segEnd); found {
			return hit, true
		}
	}
	return accel.Hit{}, false
}

func (rt *RTree) intersectSegment(ray types.Ray, tmin, tmax, segStart, segEnd float32) (accel.Hit, bool) {
	segBound := types.EmptyBound().MergePoint(ray.At(segStart)).MergePoint(ray.At(segEnd))
	query, err := toRect(segBound)
	if err != nil {
		return accel.Hit{}, false
	}

	rayFilter := func(_ []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
		return !obj.(*item).tri.Bound.Isect(ray, tmin, tmax), false
	}

	var (
		hit   accel.Hit
		found bool
	)
	closest := tmax
	for _, obj := range rt.tree.SearchIntersect(query, rayFilter) {
		tri := &obj.(*item).tri
		t, uv, ok := tri.Isect(ray, tmin, closest)
		if !ok {
			continue
		}
		closest = t
		found = true
		hit = accel.Hit{T: t, UV: uv, Primitive: tri.Primitive, Face: tri.Face}
	}

	// Hits past the segment end may be beaten by triangles that only
	// overlap later segments.
	if !found || hit.T > segEnd+boxPadding {
		return accel.Hit{}, false
	}
	return hit, true
}

func toRect(b types.Bound) (rtreego.Rect, error) {
	point := rtreego.Point{
		float64(b.Min[0] - boxPadding),
		float64(b.Min[1] - boxPadding),
		float64(b.Min[2] - boxPadding),
	}
	size := b.Size()
	lengths := []float64{
		float64(size[0] + 2*boxPadding),
		float64(size[1] + 2*boxPadding),
		float64(size[2] + 2*boxPadding),
	}
	return rtreego.NewRect(point, lengths)
}
