// Package bvh implements the reference acceleration structure: a bounding
// volume hierarchy built top-down with a binned surface area heuristic.
package bvh

import (
	"fmt"
	"time"

	"github.com/achilleasa/prism/accel"
	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/types"
)

const Name = "accel::sahbvh"

// Tunable build parameters.
type Params struct {
	// Ranges with this many triangles or less become leaves.
	MaxLeafTriangles int `mapstructure:"max_leaf_triangles"`

	// Number of SAH buckets evaluated per axis.
	Bins int `mapstructure:"bins"`

	TraversalCost float32 `mapstructure:"traversal_cost"`
	IsectCost     float32 `mapstructure:"isect_cost"`
}

// Get the default build parameters.
func DefaultParams() Params {
	return Params{
		MaxLeafTriangles: 1,
		Bins:             32,
		TraversalCost:    1,
		IsectCost:        1,
	}
}

func (p Params) validate() error {
	if p.MaxLeafTriangles < 1 || p.MaxLeafTriangles > maxLeafHardCap {
		return fmt.Errorf("%w: max_leaf_triangles must be in [1, %d]", accel.ErrInvalidParams, maxLeafHardCap)
	}
	if p.Bins < 2 {
		return fmt.Errorf("%w: bins must be >= 2", accel.ErrInvalidParams)
	}
	if p.TraversalCost < 0 || p.IsectCost <= 0 {
		return fmt.Errorf("%w: SAH costs must be positive", accel.ErrInvalidParams)
	}
	return nil
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

// BVH is a flattened bounding volume hierarchy over triangles.
type BVH struct {
	params Params
	nodes  []Node
	tris   []accel.Triangle
	stats  accel.Stats
}

// Create an unbuilt BVH.
func New(params Params) (*BVH, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &BVH{params: params}, nil
}

// Build the hierarchy from the triangles emitted by src.
func (bvh *BVH) Build(src accel.TriangleSource) error {
	start := time.Now()
	tris := accel.Gather(src)
	nodes, stats := build(
		tris,
		bvh.params.MaxLeafTriangles,
		SurfaceAreaHeuristic(bvh.params.Bins, bvh.params.TraversalCost, bvh.params.IsectCost),
	)

	bvh.nodes = nodes
	bvh.tris = tris
	bvh.stats = accel.Stats{
		Triangles: len(tris),
		Nodes:     stats.nodes,
		Leaves:    stats.leaves,
		MaxDepth:  stats.maxDepth,
		BuildTime: time.Since(start),
	}
	return nil
}

// Get the flattened node list.
func (bvh *BVH) Nodes() []Node {
	return bvh.nodes
}

func (bvh *BVH) Stats() accel.Stats {
	return bvh.stats
}

type stackEntry struct {
	node  uint32
	entry float32
}

// Find the nearest triangle hit in [tmin, tmax]. Calling Intersect on an
// unbuilt BVH always misses.
func (bvh *BVH) Intersect(ray types.Ray, tmin, tmax float32) (accel.Hit, bool) {
	if len(bvh.nodes) == 0 {
		return accel.Hit{}, false
	}

	root := &bvh.nodes[0]
	entry, _, ok := root.Bound().IsectRange(ray, tmin, tmax)
	if !ok {
		return accel.Hit{}, false
	}

	var (
		hit     accel.Hit
		found   bool
		buf     [64]stackEntry
		stack   = append(buf[:0], stackEntry{0, entry})
		closest = tmax
	)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Prune nodes entered beyond the current closest hit.
		if top.entry > closest {
			continue
		}

		node := &bvh.nodes[top.node]
		if node.IsLeaf() {
			first, count := node.Triangles()
			for i := first; i < first+count; i++ {
				tri := &bvh.tris[i]
				t, uv, ok := tri.Isect(ray, tmin, closest)
				if !ok {
					continue
				}
				closest = t
				found = true
				hit = accel.Hit{T: t, UV: uv, Primitive: tri.Primitive, Face: tri.Face}
			}
			continue
		}

		left, right := node.ChildNodes()
		lEntry, _, lHit := bvh.nodes[left].Bound().IsectRange(ray, tmin, closest)
		rEntry, _, rHit := bvh.nodes[right].Bound().IsectRange(ray, tmin, closest)

		switch {
		case lHit && rHit:
			// Push the farther child first so the nearer one is visited next.
			if lEntry <= rEntry {
				stack = append(stack, stackEntry{right, rEntry}, stackEntry{left, lEntry})
			} else {
				stack = append(stack, stackEntry{left, lEntry}, stackEntry{right, rEntry})
			}
		case lHit:
			stack = append(stack, stackEntry{left, lEntry})
		case rHit:
			stack = append(stack, stackEntry{right, rEntry})
		}
	}

	return hit, found
}
