package slope

import "math"

// Circle is a trial circular failure surface. Only the arc below the center
// is considered.
type Circle struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Radius  float64 `json:"radius_m"`
}

func (c Circle) valid() bool {
	return c.Radius > 0 && !math.IsInf(c.Radius, 0) &&
		!math.IsNaN(c.CenterX) && !math.IsInf(c.CenterX, 0) &&
		!math.IsNaN(c.CenterY) && !math.IsInf(c.CenterY, 0)
}

// arcY returns the elevation of the lower arc at x, or false when the circle
// does not reach x.
func (c Circle) arcY(x float64) (float64, bool) {
	dx := x - c.CenterX
	disc := c.Radius*c.Radius - dx*dx
	if disc < 0 {
		return 0, false
	}
	return c.CenterY - math.Sqrt(disc), true
}

// Slice is one vertical strip of the sliding mass.
//
// BaseAngle is the inclination of the slice base in radians, equal to the
// angle between the vertical through the circle center and the radius to
// the base midpoint. It is positive on the crest side of the center, where
// the base dips toward the toe, so that weight·sin(BaseAngle) drives sliding.
// MomentArm is the signed horizontal offset x - CenterX.
type Slice struct {
	X          float64 `json:"x"`
	Width      float64 `json:"width"`
	BaseLength float64 `json:"base_length"`
	Height     float64 `json:"height"`
	BaseAngle  float64 `json:"base_angle"`
	Area       float64 `json:"area"`
	MomentArm  float64 `json:"moment_arm"`
}

// SliceAt builds the slice centred on x. It reports false when the circle
// misses x or either slice edge, or when the arc lies above the ground at x
// (outside the soil mass).
func SliceAt(c Circle, p Profile, x, width float64) (Slice, bool) {
	yBase, ok := c.arcY(x)
	if !ok {
		return Slice{}, false
	}
	yGround := p.Elevation(x)
	if yBase > yGround {
		return Slice{}, false
	}

	left, right := x-width/2, x+width/2
	yLeft, okLeft := c.arcY(left)
	yRight, okRight := c.arcY(right)
	if !okLeft || !okRight {
		return Slice{}, false
	}

	h := yGround - yBase
	return Slice{
		X:          x,
		Width:      width,
		BaseLength: math.Hypot(right-left, yRight-yLeft),
		Height:     h,
		BaseAngle:  math.Atan2(c.CenterX-x, c.CenterY-yBase),
		Area:       h * width,
		MomentArm:  x - c.CenterX,
	}, true
}

// Decompose sweeps x from CenterX-Radius towards CenterX+Radius (exclusive)
// in steps of width and returns every valid slice in order. A degenerate
// circle or width yields no slices.
func Decompose(c Circle, p Profile, width float64) []Slice {
	if !c.valid() || !(width > 0) || math.IsInf(width, 0) {
		return nil
	}
	start, end := c.CenterX-c.Radius, c.CenterX+c.Radius
	n := int(math.Ceil((end - start) / width))

	slices := make([]Slice, 0, n)
	for i := 0; i < n; i++ {
		if sl, ok := SliceAt(c, p, start+float64(i)*width, width); ok {
			slices = append(slices, sl)
		}
	}
	return slices
}
