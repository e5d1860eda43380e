package renderer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/achilleasa/prism/log"
	"github.com/achilleasa/prism/sampling"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/tracer"
	"github.com/achilleasa/prism/types"
)

// A renderer that shades primary ray hits using the surface reflectance.
type raycastRenderer struct {
	logger log.Logger

	sc        *scene.Scene
	scheduler tracer.BlockScheduler
	tracers   []tracer.Tracer
	film      *Film
	options   Options

	stats FrameStats
}

// Create a raycast renderer for a built scene.
func NewRaycast(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, fmt.Errorf("%w: frame dimensions must be positive", ErrInvalidOptions)
	}
	if err := sc.Renderable(); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Exposure == 0 {
		opts.Exposure = 1
	}

	r := &raycastRenderer{
		logger:    log.New("renderer"),
		sc:        sc,
		scheduler: scheduler,
		film:      NewFilm(opts.FrameW, opts.FrameH),
		options:   opts,
	}

	for i := 0; i < opts.Workers; i++ {
		tr := tracer.NewCPUTracer(fmt.Sprintf("cpu-%d", i))
		if err := tr.Init(opts.FrameW, opts.FrameH, r.film.accum, r.shade); err != nil {
			tr.Close()
			r.Close()
			return nil, err
		}
		r.tracers = append(r.tracers, tr)
	}
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	r.logger.Infof("attached %d tracers", len(r.tracers))
	return r, nil
}

// Render a frame and add it to the film.
func (r *raycastRenderer) Render() error {
	start := time.Now()
	blockAssignments := r.scheduler.Schedule(r.tracers, r.options.FrameH)

	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))
	seed := r.options.Seed + int64(r.film.frames)*int64(r.options.FrameH)

	var blockY uint32
	pending := 0
	for idx, tr := range r.tracers {
		if blockAssignments[idx] == 0 {
			continue
		}
		tr.Enqueue(tracer.BlockRequest{
			BlockY:          blockY,
			BlockH:          blockAssignments[idx],
			SamplesPerPixel: r.options.SamplesPerPixel,
			Seed:            seed,
			DoneChan:        doneChan,
			ErrChan:         errChan,
		})
		blockY += blockAssignments[idx]
		pending++
	}

	// Wait for all blocks so no tracer is still writing to the film.
	var err error
	for ; pending > 0; pending-- {
		select {
		case <-doneChan:
		case blockErr := <-errChan:
			if err == nil {
				err = blockErr
			}
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInterrupted, err)
	}
	r.film.frames++

	r.stats.RenderTime = time.Since(start)
	r.stats.Tracers = make([]TracerStat, 0, len(r.tracers))
	for idx, tr := range r.tracers {
		if blockAssignments[idx] == 0 {
			continue
		}
		r.stats.Tracers = append(r.stats.Tracers, TracerStat{
			Id:           tr.Id(),
			BlockH:       blockAssignments[idx],
			FramePercent: 100 * float32(blockAssignments[idx]) / float32(r.options.FrameH),
			RenderTime:   tr.Stats().RenderTime,
		})
	}
	r.logger.Debugf("rendered frame %d in %d ms", r.film.frames, r.stats.RenderTime.Nanoseconds()/1e6)
	return nil
}

func (r *raycastRenderer) Frame() *Film {
	return r.film
}

func (r *raycastRenderer) Stats() FrameStats {
	return r.stats
}

// Shutdown renderer and attached tracers.
func (r *raycastRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Shade raster pixel (x, y).
func (r *raycastRenderer) shade(rng *sampling.Rng, x, y uint32) types.Vec3 {
	w, h := float32(r.options.FrameW), float32(r.options.FrameH)
	aspect := r.film.AspectRatio()

	var ray types.Ray
	if r.options.SamplesPerPixel <= 1 {
		ray = r.sc.PrimaryRay(types.Vec2{(float32(x) + 0.5) / w, (float32(y) + 0.5) / h}, aspect)
	} else {
		window := types.Vec4{float32(x) / w, float32(y) / h, 1 / w, 1 / h}
		rs, ok := r.sc.SamplePrimaryRay(rng, window, aspect)
		if !ok {
			return types.Vec3{}
		}
		ray = rs.Ray()
	}

	sp, hit := r.sc.Intersect(ray, types.Eps, types.Inf)
	if !hit {
		return r.options.Background
	}
	if sp.Geom.Infinite {
		return r.sc.EvalContrbEndpoint(sp, sp.Geom.Wo)
	}

	if r.options.Mode == Normals {
		return sp.Geom.N.Abs()
	}

	view := ray.D.Normalize().Neg()
	refl, ok := r.sc.Reflectance(sp)
	if !ok {
		// Emitters without a material show their emission.
		return r.sc.EvalContrbEndpoint(sp, view)
	}
	if r.options.Mode == Flat {
		return refl
	}
	cos := sp.Geom.N.Dot(view)
	if cos < 0 {
		cos = -cos
	}
	return refl.Mul(0.2 + 0.8*cos)
}
