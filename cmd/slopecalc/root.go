package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"Slope/internal/calc/render"
	"Slope/internal/calc/slope"
	"Slope/internal/log"

	"github.com/spf13/cobra"
)

type options struct {
	input   slope.Input
	workers int
	circle  []float64
	png     string
	dxf     string
	debug   bool
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "slopecalc",
		Short: "Slope stability by the ordinary method of slices",
		Long: `Estimate the factor of safety of a simple slope against rotational
sliding. Without --circle, a grid of trial circles is searched for the
critical one.

Example:
  slopecalc --height 10 --angle 30 --cohesion 10 --friction 20 --unit-weight 18 --png slope.png`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := log.Init(o.debug); err != nil {
				return err
			}
			defer log.Sync()
			return run(cmd.Context(), cmd.OutOrStdout(), o)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&o.input.HeightM, "height", 10, "slope height, m")
	f.Float64Var(&o.input.SlopeAngleDeg, "angle", 30, "slope face angle from horizontal, degrees")
	f.Float64Var(&o.input.CohesionKPa, "cohesion", 10, "soil cohesion, kPa")
	f.Float64Var(&o.input.FrictionAngleDeg, "friction", 20, "soil internal friction angle, degrees")
	f.Float64Var(&o.input.UnitWeightKNM3, "unit-weight", 18, "soil unit weight, kN/m3")
	f.BoolVar(&o.input.Quick, "quick", false, "use the coarse 10x10x10 search grid")
	f.IntVar(&o.input.Slices, "slices", 0, "slices per circle (default 30)")
	f.IntVar(&o.workers, "workers", 0, "search goroutines (default GOMAXPROCS)")
	f.Float64SliceVar(&o.circle, "circle", nil, "evaluate one circle cx,cy,r instead of searching")
	f.StringVar(&o.png, "png", "", "write a PNG plot to this file")
	f.StringVar(&o.dxf, "dxf", "", "write a DXF drawing to this file")
	f.BoolVar(&o.debug, "debug", false, "verbose logging")
	return cmd
}

func run(ctx context.Context, out io.Writer, o options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	scene := render.Scene{Profile: o.input.Profile(), Slices: slope.ClampSlices(o.input.Slices)}

	if len(o.circle) > 0 {
		if len(o.circle) != 3 {
			return fmt.Errorf("%w: --circle takes cx,cy,r", slope.ErrInvalidInput)
		}
		c := slope.Circle{CenterX: o.circle[0], CenterY: o.circle[1], Radius: o.circle[2]}
		res, err := slope.CalculateCircle(slope.CircleInput{Input: o.input, Circle: c})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Circle:  center (%.3f, %.3f), radius %.3f m\n", c.CenterX, c.CenterY, c.Radius)
		if res.FoS == nil {
			fmt.Fprintln(out, "FoS:     undefined (no sliding mass or no driving moment)")
		} else {
			fmt.Fprintf(out, "FoS:     %.4f\n", *res.FoS)
		}
		fmt.Fprintf(out, "Slices:  %d\n", len(res.Slices))
		scene.Circle = &c
		return export(out, o, scene)
	}

	s := slope.Searcher{Workers: o.workers, Log: log.GetSugaredLogger()}
	res, err := s.Calculate(ctx, o.input)
	if err != nil {
		return err
	}
	verdict := "stable"
	if !res.Stable {
		verdict = "UNSTABLE"
	}
	fmt.Fprintf(out, "Critical circle: center (%.3f, %.3f), radius %.3f m\n", res.Center.X, res.Center.Y, res.RadiusM)
	fmt.Fprintf(out, "FoS:             %.4f (%s)\n", res.FoS, verdict)
	fmt.Fprintf(out, "Toe offset:      %.3f m\n", res.ToeOffsetM)
	fmt.Fprintf(out, "Circles:         %d evaluated, %d feasible\n", res.Evaluated, res.Feasible)

	scene.Circle = &slope.Circle{CenterX: res.Center.X, CenterY: res.Center.Y, Radius: res.RadiusM}
	scene.Title = fmt.Sprintf("Critical circle, FoS = %.3f", res.FoS)
	return export(out, o, scene)
}

func export(out io.Writer, o options, scene render.Scene) error {
	if o.png != "" {
		f, err := os.Create(o.png)
		if err != nil {
			return err
		}
		if err := render.PNG(f, scene); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", o.png)
	}
	if o.dxf != "" {
		if err := render.DXF(o.dxf, scene); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", o.dxf)
	}
	return nil
}
