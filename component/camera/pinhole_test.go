package camera

import (
	"errors"
	"math"
	"testing"

	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/sampling"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
)

func newTestCamera(t *testing.T) *Pinhole {
	c, err := PinholeFromProps(config.Props{
		"position": []interface{}{0.0, 0.0, 5.0},
		"center":   []interface{}{0.0, 0.0, 0.0},
		"up":       []interface{}{0.0, 1.0, 0.0},
		"vfov":     90.0,
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestPrimaryRay(t *testing.T) {
	c := newTestCamera(t)

	ray := c.PrimaryRay(types.Vec2{0.5, 0.5}, 1)
	if ray.O != (types.Vec3{0, 0, 5}) {
		t.Fatalf("expected ray origin at camera position; got %v", ray.O)
	}
	if ray.D.Distance(types.Vec3{0, 0, -1}) > 1e-6 {
		t.Fatalf("expected center ray to look down -z; got %v", ray.D)
	}

	// With a 90 degree vfov the top edge is at 45 degrees.
	ray = c.PrimaryRay(types.Vec2{0.5, 1}, 1)
	exp := types.Vec3{0, 1, -1}.Normalize()
	if ray.D.Distance(exp) > 1e-6 {
		t.Fatalf("expected top edge ray %v; got %v", exp, ray.D)
	}
}

func TestRasterPositionRoundTrip(t *testing.T) {
	c := newTestCamera(t)
	specs := []struct {
		rp     types.Vec2
		aspect float32
	}{
		{types.Vec2{0.5, 0.5}, 1},
		{types.Vec2{0.1, 0.9}, 1},
		{types.Vec2{0.75, 0.25}, 16.0 / 9.0},
		{types.Vec2{0.01, 0.99}, 2},
	}

	for specIndex, spec := range specs {
		ray := c.PrimaryRay(spec.rp, spec.aspect)
		rp, ok := c.RasterPosition(ray.D, spec.aspect)
		if !ok {
			t.Fatalf("[spec %d] expected raster position for %v", specIndex, spec.rp)
		}
		if math.Abs(float64(rp[0]-spec.rp[0])) > 1e-5 || math.Abs(float64(rp[1]-spec.rp[1])) > 1e-5 {
			t.Fatalf("[spec %d] expected raster position %v; got %v", specIndex, spec.rp, rp)
		}
	}

	if _, ok := c.RasterPosition(types.Vec3{0, 0, 1}, 1); ok {
		t.Fatal("expected no raster position for a direction behind the camera")
	}
	if got := c.Pdf(types.Vec3{0, 0, 1}, 1); got != 0 {
		t.Fatalf("expected zero pdf behind the camera; got %f", got)
	}
}

// Pinhole points are degenerate so the pdf integrates to one over the solid
// angle covered by the raster.
func TestPdfNormalization(t *testing.T) {
	c := newTestCamera(t)
	const aspect = 1.5

	rng := sampling.NewRng(11)
	const numSamples = 200000
	var sum float64
	for i := 0; i < numSamples; i++ {
		wo := sampling.UniformSphere(rng.U2())
		pdf := c.Pdf(wo, aspect)
		if pdf == 0 {
			continue
		}
		sum += float64(pdf) * 4 * math.Pi
	}
	sum /= numSamples

	if math.Abs(sum-1) > 0.03 {
		t.Fatalf("expected camera pdf to integrate to 1; got %f", sum)
	}
}

func TestSamplePrimaryRay(t *testing.T) {
	c := newTestCamera(t)
	rng := sampling.NewRng(5)
	window := types.Vec4{0.5, 0.5, 0.5, 0.5}

	for i := 0; i < 500; i++ {
		cs, ok := c.SamplePrimaryRay(rng, window, 1)
		if !ok {
			t.Fatal("expected primary ray sample")
		}
		if !cs.Geom.Degenerate || cs.Geom.P != (types.Vec3{0, 0, 5}) {
			t.Fatalf("expected degenerate geometry at the camera position; got %+v", cs.Geom)
		}
		rp, ok := c.RasterPosition(cs.Wo, 1)
		if !ok || rp[0] < 0.5-1e-5 || rp[1] < 0.5-1e-5 {
			t.Fatalf("expected raster position inside window; got %v", rp)
		}
		if cs.Weight != types.Splat3(1) {
			t.Fatalf("expected unit weight; got %v", cs.Weight)
		}
	}

	if c.IsSpecular(scene.MakeDegenerate(types.Vec3{})) {
		t.Fatal("expected pinhole not to be specular")
	}
}

func TestInvalidPinhole(t *testing.T) {
	specs := []PinholeParams{
		{Position: types.Vec3{0, 0, 1}, Up: types.Vec3{0, 1, 0}, Vfov: 0},
		{Position: types.Vec3{0, 0, 1}, Up: types.Vec3{0, 1, 0}, Vfov: 180},
		{Position: types.Vec3{}, Up: types.Vec3{0, 1, 0}, Vfov: 45},
		{Position: types.Vec3{0, 1, 0}, Up: types.Vec3{0, 1, 0}, Vfov: 45},
	}
	for specIndex, spec := range specs {
		if _, err := NewPinhole(spec); !errors.Is(err, ErrInvalidCamera) {
			t.Fatalf("[spec %d] expected ErrInvalidCamera; got %v", specIndex, err)
		}
	}
}
