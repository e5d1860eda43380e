package renderer

import (
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/achilleasa/prism/accel/bvh"
	"github.com/achilleasa/prism/asset"
	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/log"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/tracer"
	"github.com/achilleasa/prism/types"
)

func init() {
	log.Discard()
}

func testScene(t *testing.T, withEnv bool) *scene.Scene {
	reg := asset.NewRegistry()
	load := func(name, impl string, props config.Props) {
		if err := reg.Load(name, impl, props); err != nil {
			t.Fatal(err)
		}
	}
	load("quad", "mesh::raw", config.Props{
		"positions": []float64{-1, -1, 0, 1, -1, 0, 1, 1, 0, -1, 1, 0},
		"faces":     []int{0, 1, 2, 0, 2, 3},
	})
	load("white", "material::diffuse", config.Props{"Kd": 0.8})
	load("cam", "camera::pinhole", config.Props{
		"position": []float64{0, 0, 5},
		"center":   []float64{0, 0, 0},
		"vfov":     60.0,
	})
	load("env", "light::envconst", config.Props{"Le": 0.25})

	s := scene.New(reg)
	primitives := []config.Props{
		{"mesh": "quad", "material": "white"},
		{"camera": "cam"},
	}
	if withEnv {
		primitives = append(primitives, config.Props{"light": "env"})
	}
	for _, props := range primitives {
		if err := s.LoadPrimitive(types.Ident4(), props); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Build("accel::sahbvh", nil); err != nil {
		t.Fatal(err)
	}
	return s
}

func render(t *testing.T, s *scene.Scene, opts Options) *Film {
	r, err := NewRaycast(s, tracer.NaiveScheduler(), opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err = r.Render(); err != nil {
		t.Fatal(err)
	}
	return r.Frame()
}

func approxVec(a, b types.Vec3, tolerance float64) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > tolerance {
			return false
		}
	}
	return true
}

func TestRaycastModes(t *testing.T) {
	s := testScene(t, false)
	bg := types.Vec3{0.1, 0.2, 0.3}

	specs := []struct {
		mode   Mode
		center types.Vec3
	}{
		{Shaded, types.Splat3(0.8)},
		{Flat, types.Splat3(0.8)},
		{Normals, types.Vec3{0, 0, 1}},
	}

	for specIndex, spec := range specs {
		film := render(t, s, Options{FrameW: 16, FrameH: 16, Workers: 3, Mode: spec.mode, Background: bg})

		if got := film.Pixel(8, 8); !approxVec(got, spec.center, 0.01) {
			t.Fatalf("[spec %d] expected center pixel to be %v; got %v", specIndex, spec.center, got)
		}
		for _, corner := range [][2]uint32{{0, 0}, {15, 0}, {0, 15}, {15, 15}} {
			if got := film.Pixel(corner[0], corner[1]); got != bg {
				t.Fatalf("[spec %d] expected corner pixel %v to be background %v; got %v", specIndex, corner, bg, got)
			}
		}
	}
}

func TestRaycastEnvironment(t *testing.T) {
	s := testScene(t, true)
	film := render(t, s, Options{FrameW: 8, FrameH: 8, Workers: 2, Background: types.Vec3{1, 0, 0}})

	if got := film.Pixel(0, 0); !approxVec(got, types.Splat3(0.25), 1e-5) {
		t.Fatalf("expected corner pixel to show the environment; got %v", got)
	}
}

func TestRaycastJitteredSamples(t *testing.T) {
	s := testScene(t, false)
	film := render(t, s, Options{FrameW: 16, FrameH: 16, SamplesPerPixel: 8, Workers: 4, Mode: Flat, Seed: 7})

	if got := film.Pixel(8, 8); !approxVec(got, types.Splat3(0.8), 1e-4) {
		t.Fatalf("expected center pixel to be fully covered; got %v", got)
	}
	if got := film.Pixel(0, 0); !got.IsZero() {
		t.Fatalf("expected corner pixel to be empty; got %v", got)
	}

	// Rows along the quad silhouette receive partial coverage.
	var partial bool
	for x := uint32(0); x < film.W; x++ {
		for y := uint32(0); y < film.H; y++ {
			v := film.Pixel(x, y)[0]
			if v > 0.01 && v < 0.79 {
				partial = true
			}
		}
	}
	if !partial {
		t.Fatal("expected some partially covered pixels")
	}
}

func TestRaycastStats(t *testing.T) {
	s := testScene(t, false)
	r, err := NewRaycast(s, tracer.NaiveScheduler(), Options{FrameW: 8, FrameH: 10, Workers: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	for i := 0; i < 2; i++ {
		if err = r.Render(); err != nil {
			t.Fatal(err)
		}
	}
	if r.Frame().Frames() != 2 {
		t.Fatalf("expected 2 accumulated frames; got %d", r.Frame().Frames())
	}

	stats := r.Stats()
	var rows uint32
	for _, ts := range stats.Tracers {
		rows += ts.BlockH
	}
	if rows != 10 {
		t.Fatalf("expected tracer blocks to cover 10 rows; got %d", rows)
	}
	if stats.String() == "" {
		t.Fatal("expected a non-empty stats table")
	}
}

func TestRaycastInvalidOptions(t *testing.T) {
	s := testScene(t, false)
	if _, err := NewRaycast(s, tracer.NaiveScheduler(), Options{FrameW: 0, FrameH: 10}); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions; got %v", err)
	}

	unbuilt := scene.New(asset.NewRegistry())
	if _, err := NewRaycast(unbuilt, tracer.NaiveScheduler(), Options{FrameW: 4, FrameH: 4}); err == nil {
		t.Fatal("expected an error for a scene that cannot be rendered")
	}

	if _, err := ParseMode("wireframe"); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions; got %v", err)
	}
}

func TestFilmPNG(t *testing.T) {
	film := NewFilm(4, 2)
	// Raster row 0 is the bottom image row.
	copy(film.accum[0:3], []float32{1, 0, 0})
	film.frames = 1

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := film.WritePNG(path, 1); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}

	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("expected a 4x2 image; got %v", b)
	}
	r, g, _, _ := img.At(0, 1).RGBA()
	if r>>8 != 255 || g != 0 {
		t.Fatalf("expected bottom-left pixel to be red; got r=%d g=%d", r>>8, g)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
		t.Fatalf("expected top-left pixel to be black; got r=%d", r>>8)
	}
}

func TestToByte(t *testing.T) {
	specs := []struct {
		in  float32
		exp uint8
	}{
		{-1, 0},
		{float32(math.NaN()), 0},
		{0, 0},
		{1, 255},
		{4, 255},
		{0.5, 186},
	}

	for specIndex, spec := range specs {
		if got := toByte(spec.in); got != spec.exp {
			t.Fatalf("[spec %d] expected toByte(%f) to be %d; got %d", specIndex, spec.in, spec.exp, got)
		}
	}
}
