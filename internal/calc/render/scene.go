// Package render draws a slope cross-section with its trial circle, as a PNG
// image for the browser and as a DXF drawing for CAD.
package render

import (
	"math"

	"Slope/internal/calc/slope"
)

// Scene is one cross-section to draw. Circle is optional; Slices > 0 adds
// the slice boundaries of the sliding mass.
type Scene struct {
	Title   string
	Profile slope.Profile
	Circle  *slope.Circle
	Slices  int
}

// arcSegments is how finely the circle is approximated by straight lines.
const arcSegments = 180

// extent is the drawn x interval: a height's worth of ground either side of
// the slope face, widened to fit the circle.
func (s Scene) extent() (x0, x1 float64) {
	h := s.Profile.Height
	x0, x1 = -h, s.Profile.ToeOffset()+h
	if c := s.Circle; c != nil {
		x0 = math.Min(x0, c.CenterX-c.Radius)
		x1 = math.Max(x1, c.CenterX+c.Radius)
	}
	return x0, x1
}

func (s Scene) ground() []slope.Point {
	x0, x1 := s.extent()
	return s.Profile.Outline(x0, x1)
}

func (s Scene) arc() []slope.Point {
	c := s.Circle
	pts := make([]slope.Point, 0, arcSegments+1)
	for i := 0; i <= arcSegments; i++ {
		t := 2 * math.Pi * float64(i) / arcSegments
		pts = append(pts, slope.Point{X: c.CenterX + c.Radius*math.Cos(t), Y: c.CenterY + c.Radius*math.Sin(t)})
	}
	return pts
}

// sliceLines returns one vertical segment per slice, from its base on the
// arc up to the ground surface. At most slope.MaxSlices slices are drawn.
func (s Scene) sliceLines() [][2]slope.Point {
	if s.Circle == nil || s.Slices <= 0 {
		return nil
	}
	width := 2 * s.Circle.Radius / float64(min(s.Slices, slope.MaxSlices))
	var out [][2]slope.Point
	for _, sl := range slope.Decompose(*s.Circle, s.Profile, width) {
		top := s.Profile.Elevation(sl.X)
		out = append(out, [2]slope.Point{{X: sl.X, Y: top - sl.Height}, {X: sl.X, Y: top}})
	}
	return out
}
