package bvh

import (
	"math"

	"github.com/achilleasa/prism/accel"
	"github.com/achilleasa/prism/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// A split scoring strategy. Lower scores are better.
type ScoreStrategy interface {
	// Find the best split of tris along axis. Centroids are distributed
	// across centroidBound; nodeArea is the surface area of the node bound.
	ScoreAxis(tris []accel.Triangle, axis Axis, centroidBound types.Bound, nodeArea float32) SplitScore

	// Calculate the score for turning tris into a leaf.
	ScoreLeaf(tris []accel.Triangle) float32
}

// The best split found along an axis.
type SplitScore struct {
	Axis Axis

	// Triangles whose centroid lies below SplitPoint go left.
	SplitPoint float32

	LeftCount, RightCount int
	Score                 float32
}

// A binned surface area heuristic. The cost of a split is:
//
// traversalCost + (leftArea*leftCount + rightArea*rightCount) / nodeArea * isectCost
//
// while the cost of a leaf is count * isectCost.
type surfaceAreaHeuristic struct {
	bins          int
	traversalCost float32
	isectCost     float32
}

// Create a SAH strategy that evaluates bins-1 split candidates per axis.
func SurfaceAreaHeuristic(bins int, traversalCost, isectCost float32) ScoreStrategy {
	return surfaceAreaHeuristic{
		bins:          bins,
		traversalCost: traversalCost,
		isectCost:     isectCost,
	}
}

type bucket struct {
	count int
	bound types.Bound
}

// Map a centroid to its bucket.
func bucketIndex(c float32, min, extent float32, bins int) int {
	b := int(float32(bins) * (c - min) / extent)
	if b < 0 {
		return 0
	}
	if b >= bins {
		return bins - 1
	}
	return b
}

func (h surfaceAreaHeuristic) ScoreAxis(tris []accel.Triangle, axis Axis, centroidBound types.Bound, nodeArea float32) SplitScore {
	best := SplitScore{Axis: axis, Score: math.MaxFloat32}

	min := centroidBound.Min[axis]
	extent := centroidBound.Max[axis] - min
	if extent <= 0 {
		return best
	}

	buckets := make([]bucket, h.bins)
	for i := range buckets {
		buckets[i].bound = types.EmptyBound()
	}
	for i := range tris {
		b := bucketIndex(tris[i].Bound.Center()[axis], min, extent, h.bins)
		buckets[b].count++
		buckets[b].bound = buckets[b].bound.Merge(tris[i].Bound)
	}

	// Sweep from the right to collect suffix areas and counts.
	rightArea := make([]float32, h.bins)
	rightCount := make([]int, h.bins)
	acc, accCount := types.EmptyBound(), 0
	for i := h.bins - 1; i > 0; i-- {
		acc = acc.Merge(buckets[i].bound)
		accCount += buckets[i].count
		rightArea[i] = acc.SurfaceArea()
		rightCount[i] = accCount
	}

	var invArea float32
	if nodeArea > 0 {
		invArea = 1 / nodeArea
	}

	acc, accCount = types.EmptyBound(), 0
	for split := 1; split < h.bins; split++ {
		acc = acc.Merge(buckets[split-1].bound)
		accCount += buckets[split-1].count
		if accCount == 0 || rightCount[split] == 0 {
			continue
		}

		score := h.traversalCost +
			(acc.SurfaceArea()*float32(accCount)+rightArea[split]*float32(rightCount[split]))*invArea*h.isectCost
		if score < best.Score {
			best = SplitScore{
				Axis:       axis,
				SplitPoint: min + extent*float32(split)/float32(h.bins),
				LeftCount:  accCount,
				RightCount: rightCount[split],
				Score:      score,
			}
		}
	}
	return best
}

func (h surfaceAreaHeuristic) ScoreLeaf(tris []accel.Triangle) float32 {
	return float32(len(tris)) * h.isectCost
}
