package slope

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput wraps every input validation failure.
var ErrInvalidInput = errors.New("invalid input")

const (
	MinSlices = 4
	MaxSlices = 1000
)

// ClampSlices turns a requested slice count into the one used: 0 selects
// DefaultSlices, anything else is limited to [MinSlices, MaxSlices].
func ClampSlices(n int) int {
	if n == 0 {
		return DefaultSlices
	}
	return min(max(n, MinSlices), MaxSlices)
}

type Input struct {
	HeightM          float64 `json:"height_m"`
	SlopeAngleDeg    float64 `json:"slope_angle_deg"`
	CohesionKPa      float64 `json:"cohesion_kpa"`
	FrictionAngleDeg float64 `json:"friction_angle_deg"`
	UnitWeightKNM3   float64 `json:"unit_weight_kn_m3"`
	Quick            bool    `json:"quick"`
	Slices           int     `json:"slices"`
}

type Center struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Result struct {
	Center     Center  `json:"center"`
	RadiusM    float64 `json:"radius_m"`
	FoS        float64 `json:"fos"`
	ToeOffsetM float64 `json:"toe_offset_m"`
	Evaluated  int     `json:"evaluated"`
	Feasible   int     `json:"feasible"`
	Stable     bool    `json:"stable"`
	Notes      string  `json:"notes"`
}

func (in Input) Profile() Profile {
	return Profile{Height: in.HeightM, SlopeAngle: in.SlopeAngleDeg}
}

func (in Input) Soil() Soil {
	return Soil{Cohesion: in.CohesionKPa, FrictionAngle: in.FrictionAngleDeg, UnitWeight: in.UnitWeightKNM3}
}

func (in Input) Grid() Grid {
	if in.Quick {
		return QuickGrid
	}
	return DefaultGrid
}

// Validate checks the ranges the engine relies on.
func (in Input) Validate() error {
	for _, v := range []float64{in.HeightM, in.SlopeAngleDeg, in.CohesionKPa, in.FrictionAngleDeg, in.UnitWeightKNM3} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value", ErrInvalidInput)
		}
	}
	switch {
	case in.HeightM <= 0:
		return fmt.Errorf("%w: height must be positive", ErrInvalidInput)
	case in.SlopeAngleDeg <= 0 || in.SlopeAngleDeg >= 90:
		return fmt.Errorf("%w: slope angle must be between 0 and 90 degrees", ErrInvalidInput)
	case in.FrictionAngleDeg < 0 || in.FrictionAngleDeg >= 90:
		return fmt.Errorf("%w: friction angle must be in [0, 90) degrees", ErrInvalidInput)
	case in.CohesionKPa < 0:
		return fmt.Errorf("%w: cohesion must not be negative", ErrInvalidInput)
	case in.UnitWeightKNM3 <= 0:
		return fmt.Errorf("%w: unit weight must be positive", ErrInvalidInput)
	}
	return nil
}

// Calculate validates in and searches for the critical circle.
func (s Searcher) Calculate(ctx context.Context, in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	if in.Slices != 0 {
		s.Slices = ClampSlices(in.Slices)
	}
	if s.Quick {
		in.Quick = true
	}

	crit, err := s.Search(ctx, in.Profile(), in.Soil(), in.Grid())
	if err != nil {
		return Result{}, err
	}
	return Result{
		Center:     Center{X: crit.Circle.CenterX, Y: crit.Circle.CenterY},
		RadiusM:    crit.Circle.Radius,
		FoS:        crit.FoS,
		ToeOffsetM: in.Profile().ToeOffset(),
		Evaluated:  crit.Evaluated,
		Feasible:   crit.Feasible,
		Stable:     crit.FoS >= 1.0,
		Notes:      "Ordinary method of slices (Fellenius), circular grid search.",
	}, nil
}

// Calculate runs Searcher.Calculate with default settings.
func Calculate(ctx context.Context, in Input) (Result, error) {
	return Searcher{}.Calculate(ctx, in)
}

// CircleInput asks for the factor of safety of one given circle.
type CircleInput struct {
	Input
	Circle Circle `json:"circle"`
}

type SliceRow struct {
	X            float64 `json:"x"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	BaseAngleDeg float64 `json:"base_angle_deg"`
	BaseLength   float64 `json:"base_length"`
	WeightKN     float64 `json:"weight_kn"`
	NormalKN     float64 `json:"normal_kn"`
	ResistingKN  float64 `json:"resisting_kn"`
}

type CircleResult struct {
	Circle          Circle     `json:"circle"`
	FoS             *float64   `json:"fos"`
	Defined         bool       `json:"defined"`
	ResistingMoment float64    `json:"resisting_moment_knm"`
	DrivingMoment   float64    `json:"driving_moment_knm"`
	Slices          []SliceRow `json:"slices"`
}

// CalculateCircle validates in and evaluates its circle. An undefined factor
// of safety is not an error; it is reported with Defined=false.
func CalculateCircle(in CircleInput) (CircleResult, error) {
	if err := in.Validate(); err != nil {
		return CircleResult{}, err
	}
	if !(in.Circle.Radius > 0) {
		return CircleResult{}, fmt.Errorf("%w: radius must be positive", ErrInvalidInput)
	}
	n := ClampSlices(in.Slices)

	a := Analyze(in.Circle, in.Profile(), in.Soil(), n)
	res := CircleResult{
		Circle:          a.Circle,
		Defined:         !math.IsInf(a.FoS, 0) && !math.IsNaN(a.FoS),
		ResistingMoment: a.ResistingMoment,
		DrivingMoment:   a.DrivingMoment,
		Slices:          make([]SliceRow, 0, len(a.Slices)),
	}
	if res.Defined {
		fos := a.FoS
		res.FoS = &fos
	}
	for _, sl := range a.Slices {
		res.Slices = append(res.Slices, SliceRow{
			X:            sl.X,
			Width:        sl.Width,
			Height:       sl.Height,
			BaseAngleDeg: sl.BaseAngle * 180 / math.Pi,
			BaseLength:   sl.BaseLength,
			WeightKN:     sl.Weight,
			NormalKN:     sl.Normal,
			ResistingKN:  sl.Resisting,
		})
	}
	return res, nil
}
