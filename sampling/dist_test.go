package sampling

import (
	"math"
	"testing"

	"github.com/achilleasa/prism/types"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestDistPmf(t *testing.T) {
	var d Dist
	weights := []float32{1, 2, 3, 4}
	for _, w := range weights {
		d.Add(w)
	}
	d.Normalize()

	if d.Len() != len(weights) {
		t.Fatalf("expected %d values; got %d", len(weights), d.Len())
	}

	var sum float32
	for i, w := range weights {
		exp := w / 10
		if got := d.Pmf(i); math.Abs(float64(got-exp)) > 1e-6 {
			t.Fatalf("expected pmf(%d) to be %f; got %f", i, exp, got)
		}
		sum += d.Pmf(i)
	}
	if math.Abs(float64(sum-1)) > 1e-6 {
		t.Fatalf("expected pmf to sum to 1; got %f", sum)
	}

	for _, i := range []int{-1, 4, 100} {
		if got := d.Pmf(i); got != 0 {
			t.Fatalf("expected out of range pmf(%d) to be 0; got %f", i, got)
		}
	}
}

func TestDistSampleBoundaries(t *testing.T) {
	var d Dist
	for _, w := range []float32{1, 2, 3, 4} {
		d.Add(w)
	}
	d.Normalize()

	type spec struct {
		u   float32
		exp int
	}
	specs := []spec{
		{0, 0},
		{0.05, 0},
		{0.1, 1},
		{0.29, 1},
		{0.3, 2},
		{0.6, 3},
		{0.99999, 3},
		{1, 3},
	}
	for index, s := range specs {
		if got := d.Sample(s.u); got != s.exp {
			t.Fatalf("[spec %d] expected Sample(%f) to be %d; got %d", index, s.u, s.exp, got)
		}
	}
}

func TestDistDegenerate(t *testing.T) {
	var empty Dist
	empty.Normalize()
	if got := empty.Sample(0.5); got != -1 {
		t.Fatalf("expected empty distribution to return -1; got %d", got)
	}
	if got := empty.Pmf(0); got != 0 {
		t.Fatalf("expected empty distribution pmf to be 0; got %f", got)
	}

	var zero Dist
	zero.Add(0)
	zero.Add(0)
	zero.Normalize()
	if zero.Pmf(0) != 0.5 || zero.Pmf(1) != 0.5 {
		t.Fatalf("expected all-zero distribution to become uniform; got %f, %f", zero.Pmf(0), zero.Pmf(1))
	}

	var skip Dist
	skip.Add(1)
	skip.Add(0)
	skip.Add(1)
	skip.Normalize()
	rng := NewRng(7)
	for i := 0; i < 1000; i++ {
		if skip.Sample(rng.U()) == 1 {
			t.Fatal("expected zero weight value to never be sampled")
		}
	}
}

func TestDistChiSquared(t *testing.T) {
	weights := []float32{1, 2, 3, 4, 0.5, 7}
	var d Dist
	for _, w := range weights {
		d.Add(w)
	}
	d.Normalize()

	const numSamples = 20000
	counts := make([]int, len(weights))
	rng := NewRng(42)
	for i := 0; i < numSamples; i++ {
		counts[d.Sample(rng.U())]++
	}

	var stat float64
	for i, count := range counts {
		exp := float64(d.Pmf(i)) * numSamples
		diff := float64(count) - exp
		stat += diff * diff / exp
	}

	pValue := 1 - distuv.ChiSquared{K: float64(len(weights) - 1)}.CDF(stat)
	if pValue < 1e-3 {
		t.Fatalf("expected sample histogram to match pmf; chi2 = %f, p-value = %g, counts = %v", stat, pValue, counts)
	}
}

func TestDist2(t *testing.T) {
	values := []float32{
		1, 0, 3,
		0, 0, 0,
		2, 2, 0,
	}
	var d Dist2
	d.Init(values, 3, 3)

	// Density integrates to 1 over the unit square.
	var integral float32
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			integral += d.Pdf((float32(x)+0.5)/3, (float32(y)+0.5)/3) / 9
		}
	}
	if math.Abs(float64(integral-1)) > 1e-5 {
		t.Fatalf("expected density to integrate to 1; got %f", integral)
	}

	// pdf(cell) = value / total * cells
	if got := d.Pdf(0.9, 0.1); math.Abs(float64(got-3.0/8*9)) > 1e-5 {
		t.Fatalf("expected pdf %f; got %f", 3.0/8*9, got)
	}

	rng := NewRng(1)
	for i := 0; i < 5000; i++ {
		uv := d.Sample(rng)
		if uv[0] < 0 || uv[0] >= 1 || uv[1] < 0 || uv[1] >= 1 {
			t.Fatalf("expected sample in unit square; got %v", uv)
		}
		if d.Pdf(uv[0], uv[1]) == 0 {
			t.Fatalf("sampled zero density cell at %v", uv)
		}
	}
}

func TestDist2Empty(t *testing.T) {
	var d Dist2
	d.Init(nil, 0, 0)

	if got := d.Sample(NewRng(3)); got != (types.Vec2{}) {
		t.Fatalf("expected empty distribution to sample the origin; got %v", got)
	}
	if got := d.Pdf(0.5, 0.5); got != 0 {
		t.Fatalf("expected zero density; got %f", got)
	}
}
