package bvh

import (
	"math"
	"sort"
	"time"

	"github.com/achilleasa/prism/accel"
	"github.com/achilleasa/prism/log"
	"github.com/achilleasa/prism/types"
)

const (
	// Ranges with at least this many triangles score the three axes in
	// parallel.
	parallelScoreThreshold = 1024

	// Leaves are never allowed to grow past this size even if no split
	// improves the SAH cost.
	maxLeafHardCap = 64
)

type buildStats struct {
	nodes    int
	leaves   int
	maxDepth int
}

type builder struct {
	logger log.Logger

	// Nodes stored as a contiguous list; the root is always at index 0.
	nodes []Node

	// Triangles; the builder reorders them so each leaf covers a
	// contiguous range.
	tris []accel.Triangle

	// Ranges with this many triangles or less become leaves.
	maxLeafItems int

	// A channel for receiving axis score results.
	scoreChan chan SplitScore

	scoreStrategy ScoreStrategy

	stats buildStats
}

// Construct a BVH over tris. The slice is reordered in place so that every
// leaf references a contiguous triangle range. An empty triangle list
// yields a single empty leaf.
func build(tris []accel.Triangle, maxLeafItems int, scoreStrategy ScoreStrategy) ([]Node, buildStats) {
	b := &builder{
		logger:        log.New("sahbvh"),
		nodes:         make([]Node, 0, 2*len(tris)+1),
		tris:          tris,
		maxLeafItems:  maxLeafItems,
		scoreChan:     make(chan SplitScore, 3),
		scoreStrategy: scoreStrategy,
	}

	start := time.Now()
	b.partition(0, len(tris), 0)
	b.logger.Debugf(
		"BVH build time: %d ms, triangles: %d, maxDepth: %d, nodes: %d, leaves: %d",
		time.Since(start).Nanoseconds()/1e6,
		len(tris), b.stats.maxDepth, b.stats.nodes, b.stats.leaves,
	)
	return b.nodes, b.stats
}

// Partition triangle range [start, end) and return the node index.
func (b *builder) partition(start, end, depth int) uint32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	work := b.tris[start:end]
	bound := types.EmptyBound()
	centroidBound := types.EmptyBound()
	for i := range work {
		bound = bound.Merge(work[i].Bound)
		centroidBound = centroidBound.MergePoint(work[i].Bound.Center())
	}

	var node Node
	if len(work) == 0 {
		// Keep the empty leaf's bound empty so every query misses it.
		node.SetBound(types.EmptyBound())
		return b.createLeaf(&node, start, end)
	}
	node.SetBound(bound)

	if len(work) <= b.maxLeafItems {
		return b.createLeaf(&node, start, end)
	}

	bestSplit := b.bestSplit(work, centroidBound, bound.SurfaceArea())
	leafScore := b.scoreStrategy.ScoreLeaf(work)

	var mid int
	switch {
	case bestSplit.Score < leafScore:
		mid = start + b.partitionAt(work, bestSplit.Axis, bestSplit.SplitPoint)
	case len(work) > maxLeafHardCap:
		mid = start + b.medianSplit(work, centroidBound)
	default:
		return b.createLeaf(&node, start, end)
	}

	// The split plane may disagree with the binning for centroids lying
	// exactly on it; fall back to a median split instead of producing an
	// empty child.
	if mid == start || mid == end {
		mid = start + b.medianSplit(work, centroidBound)
	}

	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, node)
	b.stats.nodes++

	leftNodeIndex := b.partition(start, mid, depth+1)
	rightNodeIndex := b.partition(mid, end, depth+1)
	b.nodes[nodeIndex].SetChildNodes(leftNodeIndex, rightNodeIndex)

	return uint32(nodeIndex)
}

// Score all axes and return the best split.
func (b *builder) bestSplit(work []accel.Triangle, centroidBound types.Bound, nodeArea float32) SplitScore {
	best := SplitScore{Score: math.MaxFloat32}

	if len(work) < parallelScoreThreshold {
		for axis := XAxis; axis <= ZAxis; axis++ {
			candidate := b.scoreStrategy.ScoreAxis(work, axis, centroidBound, nodeArea)
			if candidate.Score < best.Score {
				best = candidate
			}
		}
		return best
	}

	// Run axis split tests in parallel
	for axis := XAxis; axis <= ZAxis; axis++ {
		go func(axis Axis) {
			b.scoreChan <- b.scoreStrategy.ScoreAxis(work, axis, centroidBound, nodeArea)
		}(axis)
	}

	// Axes may report in any order; break ties by axis so builds are
	// deterministic.
	for pending := 3; pending > 0; pending-- {
		candidate := <-b.scoreChan
		if candidate.Score < best.Score || (candidate.Score == best.Score && candidate.Axis < best.Axis) {
			best = candidate
		}
	}
	return best
}

// Move triangles whose centroid lies below splitPoint to the front of work
// and return the number of such triangles.
func (b *builder) partitionAt(work []accel.Triangle, axis Axis, splitPoint float32) int {
	left := 0
	for i := range work {
		if work[i].Bound.Center()[axis] < splitPoint {
			work[left], work[i] = work[i], work[left]
			left++
		}
	}
	return left
}

// Sort work along the longest centroid axis and split it in half.
func (b *builder) medianSplit(work []accel.Triangle, centroidBound types.Bound) int {
	axis := centroidBound.LongestAxis()
	sort.SliceStable(work, func(i, j int) bool {
		return work[i].Bound.Center()[axis] < work[j].Bound.Center()[axis]
	})
	return len(work) / 2
}

// Setup node as a leaf covering triangle range [start, end) and return its
// index in the node list.
func (b *builder) createLeaf(node *Node, start, end int) uint32 {
	node.SetTriangles(uint32(start), uint32(end-start))

	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, *node)

	b.stats.nodes++
	b.stats.leaves++

	return uint32(nodeIndex)
}
