package stboundary

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundaryTypeIsBlocking(t *testing.T) {
	tests := []struct {
		bt   BoundaryType
		want bool
	}{
		{Stop, true},
		{Follow, true},
		{Yield, true},
		{Overtake, false},
		{Unknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.bt.String(), func(t *testing.T) {
			if got := tt.bt.IsBlocking(); got != tt.want {
				t.Errorf("%s.IsBlocking() = %v, want %v", tt.bt, got, tt.want)
			}
		})
	}
}

func TestParseBoundaryType(t *testing.T) {
	for _, bt := range []BoundaryType{Unknown, Stop, Follow, Yield, Overtake} {
		got, err := ParseBoundaryType(bt.String())
		require.NoError(t, err)
		assert.Equal(t, bt, got)
	}
	_, err := ParseBoundaryType("keep_clear")
	assert.Error(t, err)
	assert.Equal(t, "BoundaryType(42)", BoundaryType(42).String())
}

func TestUnblockedRange(t *testing.T) {
	// lead vehicle rear at 5 + 3t, 4 m long, visible over [2, 6]
	b, err := NewFollow("lead", 5, []Point{
		{T: 2, SLower: 11, SUpper: 15},
		{T: 6, SLower: 23, SUpper: 27},
	})
	require.NoError(t, err)
	assert.Equal(t, Follow, b.Type)
	assert.Equal(t, 5.0, b.CharacteristicLength)

	tests := []struct {
		name      string
		t         float64
		wantOK    bool
		wantUpper float64
		wantLower float64
	}{
		{"before window", 1.9, false, 0, 0},
		{"window start", 2, true, 11, 0},
		{"interior", 4, true, 17, 0},
		{"window end", 6, true, 23, 0},
		{"after window", 6.1, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upper, lower, ok := b.UnblockedRange(tt.t)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.wantUpper, upper, 1e-12)
			assert.InDelta(t, tt.wantLower, lower, 1e-12)
		})
	}
}

func TestUnblockedRangeMultiSegment(t *testing.T) {
	b, err := New("cut-in", Yield, []Point{
		{T: 0, SLower: 20, SUpper: 25},
		{T: 1, SLower: 20, SUpper: 25},
		{T: 3, SLower: 30, SUpper: 35},
	})
	require.NoError(t, err)

	upper, lower, ok := b.UnblockedRange(2)
	require.True(t, ok)
	assert.InDelta(t, 25, upper, 1e-12)
	assert.Zero(t, lower)

	occLower, occUpper, ok := b.Occupied(2)
	require.True(t, ok)
	assert.InDelta(t, 25, occLower, 1e-12)
	assert.InDelta(t, 30, occUpper, 1e-12)
}

func TestUnblockedRangeOvertake(t *testing.T) {
	b, err := New("slow-car", Overtake, []Point{
		{T: 0, SLower: 10, SUpper: 15},
		{T: 4, SLower: 30, SUpper: 35},
	})
	require.NoError(t, err)
	assert.False(t, b.Type.IsBlocking())

	upper, lower, ok := b.UnblockedRange(2)
	require.True(t, ok)
	assert.True(t, math.IsInf(upper, 1), "upper = %v", upper)
	assert.InDelta(t, 25, lower, 1e-12)
}

func TestNewValidation(t *testing.T) {
	_, err := New("a", Stop, []Point{{T: 0, SLower: 1, SUpper: 1}})
	assert.True(t, errors.Is(err, ErrTooFewPoints), "got %v", err)

	_, err = New("b", Stop, []Point{{T: 1}, {T: 1}})
	assert.True(t, errors.Is(err, ErrUnorderedTime), "got %v", err)

	_, err = New("c", Overtake, []Point{{T: 0, SLower: 5, SUpper: 1}, {T: 1, SLower: 5, SUpper: 6}})
	assert.True(t, errors.Is(err, ErrCrossedRange), "got %v", err)
}

func TestNewStop(t *testing.T) {
	b, err := NewStop("stop-line", 42, 0, 8)
	require.NoError(t, err)
	upper, lower, ok := b.UnblockedRange(3.3)
	require.True(t, ok)
	assert.Equal(t, 42.0, upper)
	assert.Equal(t, 0.0, lower)
	assert.Contains(t, b.String(), "type=stop")
}
