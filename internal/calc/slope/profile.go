// Package slope estimates the factor of safety of a simple earthen slope
// against rotational sliding with the ordinary method of slices, and
// searches a grid of trial circles for the critical one.
package slope

import "math"

// Profile is the ground surface: a horizontal crest at Height for x <= 0,
// a planar face descending at SlopeAngle down to the toe, and horizontal
// ground at elevation 0 beyond the toe.
type Profile struct {
	Height     float64 `json:"height_m"`
	SlopeAngle float64 `json:"slope_angle_deg"`
}

// Point is a position in the slope cross-section.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// ToeOffset is the horizontal distance from the crest edge (x = 0) to the toe.
func (p Profile) ToeOffset() float64 {
	return p.Height / math.Tan(radians(p.SlopeAngle))
}

// Elevation returns the ground level at x. It is continuous and
// non-increasing in x.
func (p Profile) Elevation(x float64) float64 {
	toe := p.ToeOffset()
	switch {
	case x <= 0:
		return p.Height
	case x >= toe:
		return 0
	default:
		return p.Height - x*math.Tan(radians(p.SlopeAngle))
	}
}

// Outline returns the vertices of the ground surface between x0 and x1,
// including the crest edge and toe when they fall inside the interval.
func (p Profile) Outline(x0, x1 float64) []Point {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	pts := []Point{{X: x0, Y: p.Elevation(x0)}}
	if x0 < 0 && 0 < x1 {
		pts = append(pts, Point{X: 0, Y: p.Height})
	}
	if toe := p.ToeOffset(); x0 < toe && toe < x1 {
		pts = append(pts, Point{X: toe, Y: 0})
	}
	return append(pts, Point{X: x1, Y: p.Elevation(x1)})
}
