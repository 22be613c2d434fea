package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"Slope/internal/calc/slope"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ImageSize is the side of the square PNG canvas.
const ImageSize = 6 * vg.Inch

func xys(pts []slope.Point) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return out
}

// Plot builds the cross-section plot. Both axes cover the same span so
// that circles stay round on a square canvas.
func Plot(s Scene) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("Slope H = %.2f m, β = %.1f°", s.Profile.Height, s.Profile.SlopeAngle)
	}
	p.X.Label.Text = "x, m"
	p.Y.Label.Text = "y, m"
	p.Add(plotter.NewGrid())

	ground, err := plotter.NewLine(xys(s.ground()))
	if err != nil {
		return nil, fmt.Errorf("ground line: %w", err)
	}
	ground.Color = color.RGBA{R: 139, G: 90, B: 43, A: 255}
	ground.Width = vg.Points(2)
	p.Add(ground)
	p.Legend.Add("ground", ground)

	x0, x1 := s.extent()
	y0, y1 := -0.5*s.Profile.Height, 1.5*s.Profile.Height

	if s.Circle != nil {
		arc, err := plotter.NewLine(xys(s.arc()))
		if err != nil {
			return nil, fmt.Errorf("circle line: %w", err)
		}
		arc.Color = color.RGBA{R: 200, A: 255}
		arc.Width = vg.Points(1.5)
		arc.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(arc)
		p.Legend.Add("slip circle", arc)

		for _, seg := range s.sliceLines() {
			l, err := plotter.NewLine(xys(seg[:]))
			if err != nil {
				return nil, fmt.Errorf("slice line: %w", err)
			}
			l.Color = color.Gray{Y: 110}
			l.Width = vg.Points(0.5)
			p.Add(l)
		}

		c := s.Circle
		y0 = math.Min(y0, c.CenterY-c.Radius)
		y1 = math.Max(y1, c.CenterY+c.Radius)
	}

	span := math.Max(x1-x0, y1-y0)
	cx, cy := (x0+x1)/2, (y0+y1)/2
	p.X.Min, p.X.Max = cx-span/2, cx+span/2
	p.Y.Min, p.Y.Max = cy-span/2, cy+span/2
	return p, nil
}

// PNG writes the scene to w as a PNG image.
func PNG(w io.Writer, s Scene) error {
	p, err := Plot(s)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(ImageSize, ImageSize, "png")
	if err != nil {
		return fmt.Errorf("png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
