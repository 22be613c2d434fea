package batch

import (
	"context"
	"errors"
	"fmt"
	"math"

	"Slope/internal/calc/slope"
)

// MaxItems bounds a single batch request; MaxCircles bounds a circle list.
const (
	MaxItems   = 500
	MaxCircles = 10000
)

var ErrEmpty = errors.New("no items")

type SlopeBatchInput struct {
	Items []slope.Input `json:"items"`
}

// SlopeItem is the outcome of one case; exactly one of Result and Error is set.
type SlopeItem struct {
	Result *slope.Result `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

type SlopeBatchResult struct {
	Results []SlopeItem `json:"results"`
	Failed  int         `json:"failed"`
}

// Slopes runs every case in order. A case that is invalid or has no
// failure surface records its error and the batch carries on; only
// cancellation aborts.
func Slopes(ctx context.Context, s slope.Searcher, in SlopeBatchInput) (SlopeBatchResult, error) {
	if len(in.Items) == 0 {
		return SlopeBatchResult{}, fmt.Errorf("%w: %w", slope.ErrInvalidInput, ErrEmpty)
	}
	if len(in.Items) > MaxItems {
		return SlopeBatchResult{}, fmt.Errorf("%w: at most %d items", slope.ErrInvalidInput, MaxItems)
	}
	out := SlopeBatchResult{Results: make([]SlopeItem, 0, len(in.Items))}
	for _, item := range in.Items {
		res, err := s.Calculate(ctx, item)
		switch {
		case err == nil:
			out.Results = append(out.Results, SlopeItem{Result: &res})
		case errors.Is(err, slope.ErrInvalidInput), errors.Is(err, slope.ErrNoSurface):
			out.Results = append(out.Results, SlopeItem{Error: err.Error()})
			out.Failed++
		default:
			return SlopeBatchResult{}, err
		}
	}
	return out, nil
}

type CircleBatchInput struct {
	Slope   slope.Input    `json:"slope"`
	Circles []slope.Circle `json:"circles"`
}

type CircleItem struct {
	Circle  slope.Circle `json:"circle"`
	FoS     *float64     `json:"fos"`
	Defined bool         `json:"defined"`
}

type CircleBatchResult struct {
	Results []CircleItem `json:"results"`
	// Critical is the index of the lowest feasible factor of safety, or -1.
	Critical int `json:"critical"`
}

// Circles evaluates each circle against one slope. With no circles given
// DefaultCircles is used.
func Circles(in CircleBatchInput) (CircleBatchResult, error) {
	if err := in.Slope.Validate(); err != nil {
		return CircleBatchResult{}, err
	}
	circles := in.Circles
	if len(circles) == 0 {
		circles = DefaultCircles(in.Slope.Profile())
	}
	if len(circles) > MaxCircles {
		return CircleBatchResult{}, fmt.Errorf("%w: at most %d circles", slope.ErrInvalidInput, MaxCircles)
	}
	n := slope.ClampSlices(in.Slope.Slices)

	p, soil := in.Slope.Profile(), in.Slope.Soil()
	out := CircleBatchResult{Results: make([]CircleItem, 0, len(circles)), Critical: -1}
	for i, c := range circles {
		item := CircleItem{Circle: c}
		fos := slope.Evaluate(c, p, soil, n)
		if !math.IsInf(fos, 0) && !math.IsNaN(fos) {
			item.FoS, item.Defined = &fos, true
		}
		if slope.Feasible(fos) && (out.Critical < 0 || fos < *out.Results[out.Critical].FoS) {
			out.Critical = i
		}
		out.Results = append(out.Results, item)
	}
	return out, nil
}

// DefaultGrid is the coarse grid DefaultCircles walks.
var DefaultGrid = slope.Grid{NX: 10, NY: 10, NR: 5}

// DefaultCircles lists the circles of DefaultGrid over the search window,
// in search order.
func DefaultCircles(p slope.Profile) []slope.Circle {
	xs, ys, rs := DefaultGrid.Ranges(p)
	out := make([]slope.Circle, 0, DefaultGrid.Size())
	for _, x := range xs {
		for _, y := range ys {
			for _, r := range rs {
				out = append(out, slope.Circle{CenterX: x, CenterY: y, Radius: r})
			}
		}
	}
	return out
}
