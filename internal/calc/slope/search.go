package slope

import (
	"context"
	"errors"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// ErrNoSurface is returned when no candidate circle in the search grid has a
// finite, positive factor of safety.
var ErrNoSurface = errors.New("no valid failure surface for the given parameters")

// Grid is the number of trial values along each search axis: circle center
// x, center y and radius.
type Grid struct {
	NX int `json:"nx"`
	NY int `json:"ny"`
	NR int `json:"nr"`
}

var (
	DefaultGrid = Grid{NX: 20, NY: 20, NR: 10}
	QuickGrid   = Grid{NX: 10, NY: 10, NR: 10}
)

// Size is the number of candidate circles in the grid.
func (g Grid) Size() int {
	if g.NX <= 0 || g.NY <= 0 || g.NR <= 0 {
		return 0
	}
	return g.NX * g.NY * g.NR
}

// Ranges returns the trial values for each axis. Centers range horizontally
// from half a slope height behind the crest to half a height beyond the toe,
// vertically from half to twice the height; radii from half to twice the
// height.
func (g Grid) Ranges(p Profile) (xs, ys, rs []float64) {
	h := p.Height
	xs = span(g.NX, -h/2, p.ToeOffset()+h/2)
	ys = span(g.NY, h/2, 2*h)
	rs = span(g.NR, h/2, 2*h)
	return xs, ys, rs
}

func span(n int, l, u float64) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{l}
	}
	return floats.Span(make([]float64, n), l, u)
}

// Candidate is one evaluated trial circle. Index is its position in the
// enumeration order (x outermost, radius innermost).
type Candidate struct {
	Circle Circle  `json:"circle"`
	FoS    float64 `json:"fos"`
	Index  int     `json:"index"`
}

// better orders feasible candidates by factor of safety, then by index.
func (c Candidate) better(o Candidate) bool {
	if c.FoS != o.FoS {
		return c.FoS < o.FoS
	}
	return c.Index < o.Index
}

// CriticalSurface is the outcome of a successful search.
type CriticalSurface struct {
	Candidate
	Evaluated int `json:"evaluated"`
	Feasible  int `json:"feasible"`
}

// Searcher scans a grid of trial circles for the one with the lowest factor
// of safety. The zero value is ready to use.
type Searcher struct {
	// Workers is the number of goroutines evaluating candidates;
	// <= 0 uses GOMAXPROCS.
	Workers int
	// Slices per circle; <= 0 uses DefaultSlices.
	Slices int
	// Quick makes Calculate use QuickGrid for every input.
	Quick bool
	Log    *zap.SugaredLogger
}

// Search evaluates every circle of grid g and returns the feasible one with
// the minimum factor of safety, ties going to the first in enumeration
// order. It returns ErrNoSurface when no candidate is feasible, or the
// context error if ctx is done before the grid is exhausted.
func (s Searcher) Search(ctx context.Context, p Profile, soil Soil, g Grid) (CriticalSurface, error) {
	start := time.Now()
	xs, ys, rs := g.Ranges(p)
	total := g.Size()

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > total {
		workers = total
	}

	type partial struct {
		best     Candidate
		found    bool
		feasible int
	}
	parts := make([]partial, workers)

	eg, ctx := errgroup.WithContext(ctx)
	chunk := (total + workers - 1) / max(workers, 1)
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, total)
		part := &parts[w]
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				ix, rem := i/(g.NY*g.NR), i%(g.NY*g.NR)
				c := Circle{CenterX: xs[ix], CenterY: ys[rem/g.NR], Radius: rs[rem%g.NR]}
				fos := Evaluate(c, p, soil, s.Slices)
				if !Feasible(fos) {
					continue
				}
				part.feasible++
				cand := Candidate{Circle: c, FoS: fos, Index: i}
				if !part.found || cand.better(part.best) {
					part.best, part.found = cand, true
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return CriticalSurface{}, err
	}

	res := CriticalSurface{Evaluated: total}
	found := false
	for _, part := range parts {
		res.Feasible += part.feasible
		if part.found && (!found || part.best.better(res.Candidate)) {
			res.Candidate, found = part.best, true
		}
	}

	if s.Log != nil {
		s.Log.Debugw("critical surface search",
			"candidates", total,
			"feasible", res.Feasible,
			"workers", workers,
			"elapsed", time.Since(start))
	}
	if !found {
		return CriticalSurface{}, ErrNoSurface
	}
	return res, nil
}

// Search runs a Searcher with default settings.
func Search(ctx context.Context, p Profile, soil Soil, g Grid) (CriticalSurface, error) {
	return Searcher{}.Search(ctx, p, soil, g)
}
