package autodesign

import (
	"context"
	"errors"
	"fmt"

	"Slope/internal/calc/slope"
)

const (
	DefaultTargetFoS = 1.5

	minAngle      = 1.0
	maxAngle      = 89.0
	angleTol      = 0.1
	maxIterations = 40
)

var ErrTargetUnreachable = errors.New("target factor of safety unreachable")

type SlopeAutoInput struct {
	HeightM          float64 `json:"height_m"`
	CohesionKPa      float64 `json:"cohesion_kpa"`
	FrictionAngleDeg float64 `json:"friction_angle_deg"`
	UnitWeightKNM3   float64 `json:"unit_weight_kn_m3"`
	TargetFoS        float64 `json:"target_fos"`
}

type SlopeAutoResult struct {
	SlopeAngleDeg float64 `json:"slope_angle_deg"`
	FoS           float64 `json:"fos"`
	// Critical is nil when no failure surface exists at the chosen angle.
	Critical   *slope.Result `json:"critical,omitempty"`
	TargetFoS  float64       `json:"target_fos"`
	Iterations int           `json:"iterations"`
	Notes      string        `json:"notes"`
}

// Slope bisects the slope angle for the steepest face whose critical factor
// of safety still meets the target. A slope with no failure surface at all
// counts as meeting it.
func Slope(ctx context.Context, s slope.Searcher, in SlopeAutoInput) (SlopeAutoResult, error) {
	target := in.TargetFoS
	if target == 0 {
		target = DefaultTargetFoS
	}
	if !(target > 0) {
		return SlopeAutoResult{}, fmt.Errorf("%w: target factor of safety must be positive", slope.ErrInvalidInput)
	}

	check := func(angle float64) (*slope.Result, bool, error) {
		res, err := s.Calculate(ctx, slope.Input{
			HeightM:          in.HeightM,
			SlopeAngleDeg:    angle,
			CohesionKPa:      in.CohesionKPa,
			FrictionAngleDeg: in.FrictionAngleDeg,
			UnitWeightKNM3:   in.UnitWeightKNM3,
			Quick:            true,
		})
		switch {
		case errors.Is(err, slope.ErrNoSurface):
			return nil, true, nil
		case err != nil:
			return nil, false, err
		}
		return &res, res.FoS >= target, nil
	}

	best, ok, err := check(minAngle)
	if err != nil {
		return SlopeAutoResult{}, err
	}
	if !ok {
		return SlopeAutoResult{}, fmt.Errorf("%w: FoS %.3f at %.0f° is below %.2f", ErrTargetUnreachable, best.FoS, minAngle, target)
	}
	lo, hi := minAngle, maxAngle
	iters := 1

	if top, ok, err := check(maxAngle); err != nil {
		return SlopeAutoResult{}, err
	} else if ok {
		lo, best = maxAngle, top
	}
	iters++

	for lo < maxAngle && hi-lo > angleTol && iters < maxIterations {
		mid := (lo + hi) / 2
		res, ok, err := check(mid)
		if err != nil {
			return SlopeAutoResult{}, err
		}
		iters++
		if ok {
			lo, best = mid, res
		} else {
			hi = mid
		}
	}

	out := SlopeAutoResult{
		SlopeAngleDeg: lo,
		Critical:      best,
		TargetFoS:     target,
		Iterations:    iters,
		Notes:         fmt.Sprintf("Steepest slope angle with critical FoS >= %.2f (bisection, %.1f° tolerance).", target, angleTol),
	}
	if best != nil {
		out.FoS = best.FoS
	}
	return out, nil
}
