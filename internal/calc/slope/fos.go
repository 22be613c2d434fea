package slope

import "math"

// DefaultSlices is the number of slices a circle is divided into when the
// caller doesn't choose.
const DefaultSlices = 30

// drivingEpsilon is the driving moment below which the factor of safety is
// undefined.
const drivingEpsilon = 1e-10

// Undefined is the factor of safety of a circle with no sliding mass or no
// driving moment.
var Undefined = math.Inf(1)

// Feasible reports whether fos describes a real failure mode: finite and
// strictly positive.
func Feasible(fos float64) bool {
	return fos > 0 && !math.IsInf(fos, 0) && !math.IsNaN(fos)
}

// SliceResult pairs a slice with the forces acting on it.
type SliceResult struct {
	Slice
	Forces
}

// Analysis is the full breakdown of one circle evaluation.
type Analysis struct {
	Circle          Circle        `json:"circle"`
	FoS             float64       `json:"-"`
	ResistingMoment float64       `json:"resisting_moment_knm"`
	DrivingMoment   float64       `json:"driving_moment_knm"`
	Slices          []SliceResult `json:"slices"`
}

// Evaluate returns the Fellenius factor of safety of circle c, or Undefined.
// numSlices <= 0 selects DefaultSlices.
func Evaluate(c Circle, p Profile, s Soil, numSlices int) float64 {
	return evaluate(c, p, s, numSlices, nil)
}

// Analyze is Evaluate with the per-slice forces and moment sums retained.
func Analyze(c Circle, p Profile, s Soil, numSlices int) Analysis {
	a := Analysis{Circle: c}
	a.FoS = evaluate(c, p, s, numSlices, &a)
	return a
}

func evaluate(c Circle, p Profile, s Soil, numSlices int, a *Analysis) float64 {
	if numSlices <= 0 {
		numSlices = DefaultSlices
	}
	width := 2 * c.Radius / float64(numSlices)

	var resisting, driving float64
	slices := Decompose(c, p, width)
	for _, sl := range slices {
		f := s.Forces(sl)
		resisting += f.Resisting * c.Radius
		driving += f.Weight * math.Sin(sl.BaseAngle) * c.Radius
		if a != nil {
			a.Slices = append(a.Slices, SliceResult{Slice: sl, Forces: f})
		}
	}
	if a != nil {
		a.ResistingMoment, a.DrivingMoment = resisting, driving
	}

	if len(slices) == 0 || !(math.Abs(driving) >= drivingEpsilon) {
		return Undefined
	}
	fos := resisting / driving
	if math.IsNaN(fos) {
		return Undefined
	}
	return fos
}
