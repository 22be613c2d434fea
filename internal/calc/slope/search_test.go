package slope

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_Ranges(t *testing.T) {
	p := testProfile()
	xs, ys, rs := DefaultGrid.Ranges(p)

	require.Len(t, xs, 20)
	require.Len(t, ys, 20)
	require.Len(t, rs, 10)
	assert.Equal(t, -5.0, xs[0])
	assert.InDelta(t, p.ToeOffset()+5, xs[19], 1e-12)
	assert.Equal(t, 5.0, ys[0])
	assert.InDelta(t, 20.0, ys[19], 1e-12)
	assert.Equal(t, 5.0, rs[0])
	assert.InDelta(t, 20.0, rs[9], 1e-12)
	assert.Equal(t, 4000, DefaultGrid.Size())
	assert.Equal(t, 1000, QuickGrid.Size())
}

func TestGrid_SingleValueAxis(t *testing.T) {
	xs, ys, rs := Grid{NX: 1, NY: 2, NR: 0}.Ranges(testProfile())
	assert.Equal(t, []float64{-5}, xs)
	assert.Len(t, ys, 2)
	assert.Empty(t, rs)
	assert.Equal(t, 0, Grid{NX: 1, NY: 2, NR: 0}.Size())
}

func TestSearch_Reference(t *testing.T) {
	tests := []struct {
		name                string
		profile             Profile
		soil                Soil
		grid                Grid
		cx, cy, r, fos      float64
		evaluated, feasible int
	}{
		{
			name:    "default grid",
			profile: testProfile(), soil: testSoil(), grid: DefaultGrid,
			cx: 13.692979209681791, cy: 16.05263157894737, r: 16.666666666666668, fos: 1.22676827903861,
			evaluated: 4000, feasible: 3039,
		},
		{
			name:    "quick grid",
			profile: testProfile(), soil: testSoil(), grid: QuickGrid,
			cx: 13.213672050459184, cy: 16.666666666666668, r: 16.666666666666668, fos: 1.2368278663463605,
			evaluated: 1000, feasible: 745,
		},
		{
			name:    "steep slope",
			profile: Profile{Height: 10, SlopeAngle: 45}, soil: Soil{Cohesion: 10, FrictionAngle: 30, UnitWeight: 20}, grid: DefaultGrid,
			cx: 9.736842105263158, cy: 12.105263157894736, r: 11.666666666666668, fos: 1.1535210375625147,
			evaluated: 4000, feasible: 3194,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Search(context.Background(), tt.profile, tt.soil, tt.grid)
			require.NoError(t, err)

			assert.InEpsilon(t, tt.fos, res.FoS, 1e-6)
			assert.InDelta(t, tt.cx, res.Circle.CenterX, 1e-9)
			assert.InDelta(t, tt.cy, res.Circle.CenterY, 1e-9)
			assert.InDelta(t, tt.r, res.Circle.Radius, 1e-9)
			assert.Greater(t, res.Circle.Radius, 0.0)
			assert.Equal(t, tt.evaluated, res.Evaluated)
			assert.InDelta(t, tt.feasible, res.Feasible, 3)
		})
	}
}

func TestSearch_DeterministicAcrossWorkers(t *testing.T) {
	p, s := testProfile(), testSoil()
	want, err := Searcher{Workers: 1}.Search(context.Background(), p, s, QuickGrid)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 7, 64, 5000} {
		got, err := Searcher{Workers: workers}.Search(context.Background(), p, s, QuickGrid)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestSearch_MatchesExhaustiveScan(t *testing.T) {
	p, s := testProfile(), testSoil()
	g := Grid{NX: 6, NY: 5, NR: 4}
	xs, ys, rs := g.Ranges(p)

	best := math.Inf(1)
	bestIndex := -1
	i := 0
	for _, x := range xs {
		for _, y := range ys {
			for _, r := range rs {
				fos := Evaluate(Circle{CenterX: x, CenterY: y, Radius: r}, p, s, DefaultSlices)
				if Feasible(fos) && fos < best {
					best, bestIndex = fos, i
				}
				i++
			}
		}
	}
	require.GreaterOrEqual(t, bestIndex, 0)

	res, err := Searcher{Workers: 4}.Search(context.Background(), p, s, g)
	require.NoError(t, err)
	assert.Equal(t, best, res.FoS)
	assert.Equal(t, bestIndex, res.Index)
}

func TestCandidate_TieBreakByIndex(t *testing.T) {
	a := Candidate{FoS: 1.3, Index: 10}
	b := Candidate{FoS: 1.3, Index: 4}
	c := Candidate{FoS: 1.1, Index: 99}

	assert.True(t, b.better(a))
	assert.False(t, a.better(b))
	assert.True(t, c.better(b))
}

func TestSearch_NoSurface(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		grid    Grid
	}{
		{"negligible height", Profile{Height: 1e-6, SlopeAngle: 30}, DefaultGrid},
		{"empty grid", testProfile(), Grid{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Search(context.Background(), tt.profile, testSoil(), tt.grid)
			assert.ErrorIs(t, err, ErrNoSurface)
		})
	}
}

func TestSearch_InvalidInputDoesNotPanic(t *testing.T) {
	for _, p := range []Profile{
		{Height: 0, SlopeAngle: 30},
		{Height: -10, SlopeAngle: 30},
		{Height: 10, SlopeAngle: 0},
		{Height: 10, SlopeAngle: 90},
		{Height: math.NaN(), SlopeAngle: 30},
	} {
		assert.NotPanics(t, func() {
			res, err := Search(context.Background(), p, testSoil(), QuickGrid)
			if err == nil {
				assert.True(t, Feasible(res.FoS), "profile %+v", p)
			} else {
				assert.ErrorIs(t, err, ErrNoSurface, "profile %+v", p)
			}
		}, "profile %+v", p)
	}
}

func TestSearch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Search(ctx, testProfile(), testSoil(), DefaultGrid)
	assert.ErrorIs(t, err, context.Canceled)
}
