package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/prism/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	accelFlag := cli.StringFlag{
		Name:  "accel",
		Usage: "override the acceleration structure defined by the scene",
	}

	app := cli.NewApp()
	app.Name = "prism"
	app.Usage = "load scenes and render them using ray casting"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "info",
			Usage:     "display scene information",
			ArgsUsage: "scene.json",
			Flags:     []cli.Flag{accelFlag},
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:   "list",
			Usage:  "list acceleration structures and asset implementations",
			Action: cmd.ListImplementations,
		},
		{
			Name:  "render",
			Usage: "render single frame",
			Description: `
Load a scene description, build its acceleration structure and render a frame
by casting one or more primary rays per pixel. The result is written as a PNG
image.`,
			ArgsUsage: "scene.json",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 1,
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 1,
					Usage: "number of frames to accumulate",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of tracers (defaults to the number of CPUs)",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: "perfect",
					Usage: "block scheduler (naive, perfect)",
				},
				cli.StringFlag{
					Name:  "mode",
					Value: "shaded",
					Usage: "shading mode (shaded, normals, flat)",
				},
				cli.Float64Flag{
					Name:  "background",
					Value: 0,
					Usage: "background intensity for rays that escape the scene",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "camera exposure for tone-mapping",
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "random seed",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
				accelFlag,
			},
			Action: cmd.RenderFrame,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
