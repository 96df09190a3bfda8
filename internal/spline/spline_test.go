package spline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadraticCoefficients returns coefficients representing s(t) = t² on the
// given knots, using the normalised segment coordinate.
func quadraticCoefficients(knots []float64, order int) []float64 {
	x := make([]float64, 0, (len(knots)-1)*(order+1))
	for k := 0; k+1 < len(knots); k++ {
		t0, h := knots[k], knots[k+1]-knots[k]
		seg := make([]float64, order+1)
		// (t0 + hτ)² = t0² + 2·t0·h·τ + h²τ²
		seg[0] = t0 * t0
		seg[1] = 2 * t0 * h
		seg[2] = h * h
		x = append(x, seg...)
	}
	return x
}

func TestNewSpline1dValidation(t *testing.T) {
	_, err := NewSpline1d([]float64{0}, 3)
	assert.True(t, errors.Is(err, ErrInvalidKnots))

	_, err = NewSpline1d([]float64{0, 1, 1}, 3)
	assert.True(t, errors.Is(err, ErrInvalidKnots))

	_, err = NewSpline1d([]float64{0, 1}, -1)
	assert.True(t, errors.Is(err, ErrInvalidOrder))

	s, err := NewSpline1d([]float64{0, 2, 4, 6, 8}, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, s.NumSegments())
	assert.Equal(t, 24, s.NumParams())
	assert.Equal(t, 5, s.Order())
	assert.Equal(t, []float64{0, 2, 4, 6, 8}, s.Knots())
}

func TestEvaluateDerivatives(t *testing.T) {
	knots := []float64{0, 2, 4, 6, 8}
	s, err := NewSpline1d(knots, 5)
	require.NoError(t, err)
	require.NoError(t, s.SetCoefficients(quadraticCoefficients(knots, 5)))

	for _, tt := range []float64{0, 0.5, 2, 3.3, 4, 7.9, 8} {
		assert.InDelta(t, tt*tt, s.Evaluate(tt), 1e-9, "s(%v)", tt)
		assert.InDelta(t, 2*tt, s.Derivative(tt), 1e-9, "s'(%v)", tt)
		assert.InDelta(t, 2.0, s.SecondOrderDerivative(tt), 1e-9, "s''(%v)", tt)
		assert.InDelta(t, 0.0, s.ThirdOrderDerivative(tt), 1e-9, "s'''(%v)", tt)
	}
	// extrapolates the last segment past the final knot
	assert.InDelta(t, 81.0, s.Evaluate(9), 1e-9)
}

func TestSetCoefficientsLength(t *testing.T) {
	s, err := NewSpline1d([]float64{0, 1}, 3)
	require.NoError(t, err)
	err = s.SetCoefficients([]float64{1, 2})
	assert.True(t, errors.Is(err, ErrCoefficientCount))

	require.NoError(t, s.SetCoefficients([]float64{1, 2, 3, 4}))
	c := s.Coefficients()
	c[0] = 100
	assert.Equal(t, 1.0, s.Coefficients()[0])
}

func TestFallingFactorial(t *testing.T) {
	assert.Equal(t, 1.0, fallingFactorial(4, 0))
	assert.Equal(t, 4.0, fallingFactorial(4, 1))
	assert.Equal(t, 60.0, fallingFactorial(5, 3))
	assert.Equal(t, 0.0, fallingFactorial(2, 3))
}

func TestLocate(t *testing.T) {
	s, err := NewSpline1d([]float64{0, 2, 4}, 3)
	require.NoError(t, err)

	tests := []struct {
		t       float64
		wantSeg int
		wantTau float64
	}{
		{-1, 0, -0.5},
		{0, 0, 0},
		{1, 0, 0.5},
		{2, 1, 0},
		{4, 1, 1},
		{5, 1, 1.5},
	}
	for _, tt := range tests {
		seg, tau := s.locate(tt.t)
		assert.Equal(t, tt.wantSeg, seg, "segment for t=%v", tt.t)
		assert.InDelta(t, tt.wantTau, tau, 1e-12, "tau for t=%v", tt.t)
	}
	assert.False(t, math.IsNaN(s.Evaluate(3)))
}
