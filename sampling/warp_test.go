package sampling

import (
	"math"
	"testing"
)

func TestWarps(t *testing.T) {
	rng := NewRng(3)
	var meanZ float64
	const n = 20000
	for i := 0; i < n; i++ {
		u := rng.U2()

		d := CosineHemisphere(u)
		if d[2] < 0 || math.Abs(float64(d.Len()-1)) > 1e-4 {
			t.Fatalf("expected unit direction in upper hemisphere; got %v", d)
		}
		meanZ += float64(d[2])

		s := UniformSphere(u)
		if math.Abs(float64(s.Len()-1)) > 1e-4 {
			t.Fatalf("expected unit direction; got %v", s)
		}

		b := UniformTriangle(u)
		if b[0] < 0 || b[1] < 0 || b[0]+b[1] > 1+1e-6 {
			t.Fatalf("expected barycentric coordinates inside triangle; got %v", b)
		}
	}

	// E[cos] under a cosine distribution is 2/3.
	meanZ /= n
	if math.Abs(meanZ-2.0/3.0) > 0.01 {
		t.Fatalf("expected mean cosine 2/3; got %f", meanZ)
	}
}
