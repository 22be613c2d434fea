package slope

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Input {
	return Input{
		HeightM:          10,
		SlopeAngleDeg:    30,
		CohesionKPa:      10,
		FrictionAngleDeg: 20,
		UnitWeightKNM3:   18,
	}
}

func TestInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Input)
		ok     bool
	}{
		{"valid", func(*Input) {}, true},
		{"zero cohesion", func(in *Input) { in.CohesionKPa = 0 }, true},
		{"zero friction", func(in *Input) { in.FrictionAngleDeg = 0 }, true},
		{"zero height", func(in *Input) { in.HeightM = 0 }, false},
		{"flat slope", func(in *Input) { in.SlopeAngleDeg = 0 }, false},
		{"vertical slope", func(in *Input) { in.SlopeAngleDeg = 90 }, false},
		{"negative friction", func(in *Input) { in.FrictionAngleDeg = -1 }, false},
		{"friction 90", func(in *Input) { in.FrictionAngleDeg = 90 }, false},
		{"negative cohesion", func(in *Input) { in.CohesionKPa = -0.1 }, false},
		{"zero unit weight", func(in *Input) { in.UnitWeightKNM3 = 0 }, false},
		{"nan height", func(in *Input) { in.HeightM = math.NaN() }, false},
		{"infinite cohesion", func(in *Input) { in.CohesionKPa = math.Inf(1) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.modify(&in)
			err := in.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidInput)
			}
		})
	}
}

func TestCalculate(t *testing.T) {
	res, err := Calculate(context.Background(), validInput())
	require.NoError(t, err)

	assert.InEpsilon(t, 1.22676827903861, res.FoS, 1e-6)
	assert.InDelta(t, 13.692979209681791, res.Center.X, 1e-9)
	assert.InDelta(t, 16.05263157894737, res.Center.Y, 1e-9)
	assert.InDelta(t, 16.666666666666668, res.RadiusM, 1e-9)
	assert.InDelta(t, 17.320508075688775, res.ToeOffsetM, 1e-12)
	assert.Equal(t, 4000, res.Evaluated)
	assert.True(t, res.Stable)
	assert.NotEmpty(t, res.Notes)
}

func TestCalculate_Quick(t *testing.T) {
	in := validInput()
	in.Quick = true
	res, err := Calculate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1000, res.Evaluated)
	assert.InEpsilon(t, 1.2368278663463605, res.FoS, 1e-6)
}

func TestCalculate_SliceCountClamped(t *testing.T) {
	in := validInput()
	in.Quick = true
	in.Slices = 1
	res, err := Calculate(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, Feasible(res.FoS))
}

func TestCalculate_Errors(t *testing.T) {
	in := validInput()
	in.HeightM = -1
	_, err := Calculate(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = validInput()
	in.HeightM = 1e-6
	_, err = Calculate(context.Background(), in)
	assert.ErrorIs(t, err, ErrNoSurface)
}

func TestCalculateCircle(t *testing.T) {
	res, err := CalculateCircle(CircleInput{Input: validInput(), Circle: refCircle})
	require.NoError(t, err)

	require.True(t, res.Defined)
	require.NotNil(t, res.FoS)
	assert.InEpsilon(t, 1.8174541174060108, *res.FoS, 1e-9)
	assert.NotEmpty(t, res.Slices)
	assert.Greater(t, res.DrivingMoment, 0.0)

	for _, row := range res.Slices {
		assert.Greater(t, row.BaseAngleDeg, -90.0)
		assert.Less(t, row.BaseAngleDeg, 90.0)
	}
}

func TestCalculateCircle_Undefined(t *testing.T) {
	res, err := CalculateCircle(CircleInput{Input: validInput(), Circle: Circle{CenterX: 0, CenterY: 100, Radius: 5}})
	require.NoError(t, err)
	assert.False(t, res.Defined)
	assert.Nil(t, res.FoS)
	assert.Empty(t, res.Slices)
}

func TestCalculateCircle_InvalidRadius(t *testing.T) {
	_, err := CalculateCircle(CircleInput{Input: validInput(), Circle: Circle{CenterX: 0, CenterY: 10, Radius: 0}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearcher_QuickOverride(t *testing.T) {
	res, err := Searcher{Quick: true}.Calculate(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, QuickGrid.Size(), res.Evaluated)
}

func TestClampSlices(t *testing.T) {
	assert.Equal(t, DefaultSlices, ClampSlices(0))
	assert.Equal(t, MinSlices, ClampSlices(1))
	assert.Equal(t, MinSlices, ClampSlices(-7))
	assert.Equal(t, 60, ClampSlices(60))
	assert.Equal(t, MaxSlices, ClampSlices(500_000_000))
}
