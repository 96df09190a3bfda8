package speedlimit

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVmaxAt(t *testing.T) {
	sl, err := New([]Point{{S: 0, V: 10}, {S: 50, V: 20}, {S: 100, V: 5}})
	require.NoError(t, err)

	tests := []struct {
		name string
		s    float64
		want float64
	}{
		{"before first breakpoint", -5, 10},
		{"on first breakpoint", 0, 10},
		{"midway first segment", 25, 15},
		{"on interior breakpoint", 50, 20},
		{"midway second segment", 75, 12.5},
		{"on last breakpoint", 100, 5},
		{"past last breakpoint", 150, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sl.VmaxAt(tt.s); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("VmaxAt(%v) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestVmaxAtStepBreakpoints(t *testing.T) {
	// repeated station models a step change
	sl, err := New([]Point{{S: 0, V: 10}, {S: 30, V: 10}, {S: 30, V: 4}, {S: 60, V: 4}})
	require.NoError(t, err)

	assert.InDelta(t, 10, sl.VmaxAt(29.999), 1e-9)
	assert.InDelta(t, 4, sl.VmaxAt(30.001), 1e-9)
}

func TestEmptyCurve(t *testing.T) {
	var nilCurve *SpeedLimit
	assert.Equal(t, 0, nilCurve.Len())
	assert.Equal(t, 0.0, nilCurve.VmaxAt(10))
	assert.Nil(t, nilCurve.Points())

	empty, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 0.0, empty.MinVmax())
}

func TestAppendPointValidation(t *testing.T) {
	sl := &SpeedLimit{}
	require.NoError(t, sl.AppendPoint(0, 10))
	require.NoError(t, sl.AppendPoint(10, 12))

	err := sl.AppendPoint(5, 10)
	assert.True(t, errors.Is(err, ErrNonMonotone), "got %v", err)

	err = sl.AppendPoint(20, -1)
	assert.True(t, errors.Is(err, ErrInvalidSpeed), "got %v", err)

	err = sl.AppendPoint(20, math.NaN())
	assert.True(t, errors.Is(err, ErrInvalidSpeed), "got %v", err)

	assert.Equal(t, 2, sl.Len())
}

func TestConstantAndMin(t *testing.T) {
	sl := Constant(13.9, 200)
	require.Equal(t, 2, sl.Len())
	assert.Equal(t, Point{S: 200, V: 13.9}, sl.At(1))
	assert.Equal(t, 13.9, sl.VmaxAt(120))

	mixed, err := New([]Point{{S: 0, V: 10}, {S: 5, V: 3}, {S: 10, V: 8}})
	require.NoError(t, err)
	assert.Equal(t, 3.0, mixed.MinVmax())
}

func TestPointsReturnsCopy(t *testing.T) {
	sl := Constant(10, 100)
	pts := sl.Points()
	pts[0].V = 99
	assert.Equal(t, 10.0, sl.At(0).V)
}
