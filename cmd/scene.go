package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/achilleasa/prism/accel"
	"github.com/achilleasa/prism/asset"
	"github.com/achilleasa/prism/scenefile"
	"github.com/urfave/cli"
)

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, reg, err := scenefile.Load(ctx.Args().First(), scenefile.Options{Accel: ctx.String("accel")})
	if err != nil {
		return err
	}

	logger.Noticef("loaded assets: %s", strings.Join(reg.Names(), ", "))
	logger.Noticef("scene information:\n%s", sc.Stats())

	return nil
}

// List registered acceleration structures and asset implementations.
func ListImplementations(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	fmt.Fprintln(ctx.App.Writer, "acceleration structures:")
	for _, name := range accel.Names() {
		fmt.Fprintf(ctx.App.Writer, "  %s\n", name)
	}

	fmt.Fprintln(ctx.App.Writer, "asset implementations:")
	for _, name := range asset.NewRegistry().Implementations() {
		fmt.Fprintf(ctx.App.Writer, "  %s\n", name)
	}
	return nil
}
