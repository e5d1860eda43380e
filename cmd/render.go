package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/achilleasa/prism/renderer"
	"github.com/achilleasa/prism/scenefile"
	"github.com/achilleasa/prism/tracer"
	"github.com/achilleasa/prism/types"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	mode, err := renderer.ParseMode(ctx.String("mode"))
	if err != nil {
		return err
	}
	bg := ctx.Float64("background")

	opts := renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		Workers:         ctx.Int("workers"),
		Mode:            mode,
		Background:      types.Splat3(float32(bg)),
		Exposure:        float32(ctx.Float64("exposure")),
		Seed:            ctx.Int64("seed"),
	}

	var scheduler tracer.BlockScheduler
	switch ctx.String("scheduler") {
	case "naive":
		scheduler = tracer.NaiveScheduler()
	case "perfect":
		scheduler = tracer.PerfectScheduler()
	default:
		return fmt.Errorf("unknown block scheduler %q", ctx.String("scheduler"))
	}

	// Load scene
	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, _, err := scenefile.Load(ctx.Args().First(), scenefile.Options{Accel: ctx.String("accel")})
	if err != nil {
		return err
	}

	// Create renderer
	r, err := renderer.NewRaycast(sc, scheduler, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	frames := ctx.Int("frames")
	if frames < 1 {
		frames = 1
	}
	for i := 0; i < frames; i++ {
		if err = r.Render(); err != nil {
			return err
		}
		logger.Noticef("frame statistics\n%s", r.Stats())
	}

	// Export PNG
	imgFile := ctx.String("out")
	start := time.Now()
	if err = r.Frame().WritePNG(imgFile, opts.Exposure); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1000000)

	return nil
}
