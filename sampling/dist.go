package sampling

import (
	"sort"

	"github.com/achilleasa/prism/types"
)

// Dist is a 1D discrete distribution stored as a cumulative sum. Values are
// appended with Add and the distribution must be normalized before it is
// sampled.
type Dist struct {
	c []float32
}

// Remove all values.
func (d *Dist) Clear() {
	d.c = d.c[:0]
}

// Append a non-negative weight. Negative weights are treated as zero.
func (d *Dist) Add(v float32) {
	if len(d.c) == 0 {
		d.c = append(d.c, 0)
	}
	if v < 0 {
		v = 0
	}
	d.c = append(d.c, d.c[len(d.c)-1]+v)
}

// Number of values in the distribution.
func (d *Dist) Len() int {
	if len(d.c) == 0 {
		return 0
	}
	return len(d.c) - 1
}

// The unnormalized sum of all weights. Only meaningful before Normalize.
func (d *Dist) Sum() float32 {
	if len(d.c) == 0 {
		return 0
	}
	return d.c[len(d.c)-1]
}

// Normalize the distribution so that the last CDF entry equals 1. A
// distribution whose weights are all zero becomes uniform.
func (d *Dist) Normalize() {
	n := d.Len()
	if n == 0 {
		return
	}

	sum := d.c[n]
	if sum <= 0 {
		for i := range d.c {
			d.c[i] = float32(i) / float32(n)
		}
		return
	}

	inv := 1 / sum
	for i := range d.c {
		d.c[i] *= inv
	}
	d.c[n] = 1
}

// Probability mass of the i-th value, or 0 if i is out of range.
func (d *Dist) Pmf(i int) float32 {
	if i < 0 || i+1 >= len(d.c) {
		return 0
	}
	return d.c[i+1] - d.c[i]
}

// Sample an index using u in [0, 1). Returns -1 for an empty distribution.
func (d *Dist) Sample(u float32) int {
	if d.Len() == 0 {
		return -1
	}
	i := sort.Search(len(d.c), func(i int) bool { return d.c[i] > u }) - 1
	if i < 0 {
		return 0
	}
	if i > len(d.c)-2 {
		return len(d.c) - 2
	}
	return i
}

// Dist2 is a piecewise constant 2D distribution over a cols x rows grid. It
// holds a conditional distribution per row and a marginal distribution over
// the row sums.
type Dist2 struct {
	rows []Dist
	m    Dist
	w, h int
}

// Initialize the distribution from row-major values.
func (d *Dist2) Init(values []float32, cols, rows int) {
	d.w, d.h = cols, rows
	d.rows = make([]Dist, rows)
	d.m = Dist{}
	for y := 0; y < rows; y++ {
		row := &d.rows[y]
		for x := 0; x < cols; x++ {
			row.Add(values[y*cols+x])
		}
		d.m.Add(row.Sum())
		row.Normalize()
	}
	d.m.Normalize()
}

// Sample a continuous position in [0, 1)^2. Empty distributions yield the
// origin.
func (d *Dist2) Sample(rng *Rng) types.Vec2 {
	if d.w == 0 || d.h == 0 {
		return types.Vec2{}
	}
	y := d.m.Sample(rng.U())
	x := d.rows[y].Sample(rng.U())
	return types.Vec2{
		(float32(x) + rng.U()) / float32(d.w),
		(float32(y) + rng.U()) / float32(d.h),
	}
}

// Evaluate the density at position (u, v).
func (d *Dist2) Pdf(u, v float32) float32 {
	if d.w == 0 || d.h == 0 {
		return 0
	}
	y := clampIndex(int(v*float32(d.h)), d.h)
	x := clampIndex(int(u*float32(d.w)), d.w)
	return d.m.Pmf(y) * d.rows[y].Pmf(x) * float32(d.w*d.h)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
