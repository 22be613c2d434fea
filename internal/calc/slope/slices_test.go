package slope

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refCircle = Circle{CenterX: 5, CenterY: 15, Radius: 14}

func TestSliceAt_BelowCenter(t *testing.T) {
	p := testProfile()
	sl, ok := SliceAt(refCircle, p, 5, 1)
	require.True(t, ok)

	ground := 10 - 5*math.Tan(radians(30))
	assert.InDelta(t, ground-1, sl.Height, 1e-12)
	assert.InDelta(t, sl.Height, sl.Area, 1e-12)
	assert.Equal(t, 0.0, sl.BaseAngle)
	assert.Equal(t, 0.0, sl.MomentArm)
	assert.InDelta(t, 1.0, sl.BaseLength, 1e-12)
}

func TestSliceAt_AngleSignAndArm(t *testing.T) {
	p := testProfile()

	crest, ok := SliceAt(refCircle, p, 0, 0.5)
	require.True(t, ok)
	assert.Greater(t, crest.BaseAngle, 0.0, "base dips toward the toe on the crest side")
	assert.Equal(t, -5.0, crest.MomentArm)
	assert.InDelta(t, math.Abs(crest.MomentArm), refCircle.Radius*math.Sin(crest.BaseAngle), 1e-9)

	toe, ok := SliceAt(refCircle, p, 10, 0.5)
	require.True(t, ok)
	assert.Less(t, toe.BaseAngle, 0.0)
	assert.Equal(t, 5.0, toe.MomentArm)

	// The curved base is longer than the slice is wide.
	assert.Greater(t, crest.BaseLength, crest.Width)
	assert.InDelta(t, crest.Width/math.Cos(crest.BaseAngle), crest.BaseLength, 1e-3)
}

func TestSliceAt_Rejections(t *testing.T) {
	p := testProfile()

	_, ok := SliceAt(refCircle, p, 30, 1)
	assert.False(t, ok, "circle does not reach x")

	_, ok = SliceAt(refCircle, p, refCircle.CenterX+refCircle.Radius-0.1, 1)
	assert.False(t, ok, "right edge of slice outside the circle")

	high := Circle{CenterX: 0, CenterY: 100, Radius: 5}
	_, ok = SliceAt(high, p, 0, 1)
	assert.False(t, ok, "arc above the ground surface")
}

func TestDecompose_Ordered(t *testing.T) {
	p := testProfile()
	width := 2 * refCircle.Radius / 30
	slices := Decompose(refCircle, p, width)
	require.NotEmpty(t, slices)

	for i, sl := range slices {
		assert.Equal(t, width, sl.Width)
		assert.GreaterOrEqual(t, sl.Height, 0.0)
		assert.GreaterOrEqual(t, sl.X-width/2, refCircle.CenterX-refCircle.Radius-1e-9)
		assert.LessOrEqual(t, sl.X+width/2, refCircle.CenterX+refCircle.Radius+1e-9)
		if i > 0 {
			assert.Greater(t, sl.X, slices[i-1].X)
		}
	}

	again := Decompose(refCircle, p, width)
	assert.Equal(t, slices, again)
}

func TestDecompose_AboveGround(t *testing.T) {
	high := Circle{CenterX: 0, CenterY: 100, Radius: 5}
	assert.Empty(t, Decompose(high, testProfile(), 0.5))
}

func TestDecompose_Degenerate(t *testing.T) {
	p := testProfile()
	tests := []struct {
		name   string
		circle Circle
		width  float64
	}{
		{"zero radius", Circle{CenterX: 5, CenterY: 5, Radius: 0}, 1},
		{"negative radius", Circle{CenterX: 5, CenterY: 5, Radius: -3}, 1},
		{"nan center", Circle{CenterX: math.NaN(), CenterY: 5, Radius: 3}, 1},
		{"infinite center", Circle{CenterX: math.Inf(1), CenterY: 5, Radius: 3}, 1},
		{"zero width", refCircle, 0},
		{"nan width", refCircle, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Decompose(tt.circle, p, tt.width))
		})
	}
}
