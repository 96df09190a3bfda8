package spline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newTestSpline(t *testing.T) *Spline1d {
	t.Helper()
	s, err := NewSpline1d([]float64{0, 2, 4, 6, 8}, 5)
	require.NoError(t, err)
	return s
}

// rowValues returns row·x for every registered row.
func rowValues(c *Constraint, x []float64) []float64 {
	a, _, _ := c.Matrix()
	var out mat.VecDense
	out.MulVec(a, mat.NewVecDense(len(x), x))
	return out.RawVector().Data
}

func TestPointConstraintsEvaluateBasis(t *testing.T) {
	s := newTestSpline(t)
	c := NewConstraint(s)
	x := quadraticCoefficients(s.knots, s.order)

	require.NoError(t, c.AddPointConstraint(3, 9))
	require.NoError(t, c.AddPointDerivativeConstraint(3, 6))
	require.NoError(t, c.AddPointSecondDerivativeConstraint(8, 2))
	require.NoError(t, c.AddPointThirdDerivativeConstraint(1, 0))
	require.Equal(t, 4, c.NumConstraints())

	_, l, u := c.Matrix()
	got := rowValues(c, x)
	for i := range got {
		assert.InDelta(t, l[i], got[i], 1e-9, "row %d", i)
		assert.Equal(t, l[i], u[i], "point rows are equalities")
	}
}

func TestPointConstraintOutOfRange(t *testing.T) {
	c := NewConstraint(newTestSpline(t))
	err := c.AddPointConstraint(8.5, 0)
	assert.True(t, errors.Is(err, ErrOutOfRange), "got %v", err)
	err = c.AddPointDerivativeConstraint(0, math.Inf(1))
	assert.True(t, errors.Is(err, ErrInvalidBoundary), "got %v", err)
	assert.Equal(t, 0, c.NumConstraints())

	// drift from i*step accumulation is tolerated
	require.NoError(t, c.AddPointConstraint(8+1e-12, 0))
}

func TestMonotoneAtKnots(t *testing.T) {
	s := newTestSpline(t)
	c := NewConstraint(s)
	require.NoError(t, c.AddMonotoneInequalityConstraintAtKnots())
	require.Equal(t, 4, c.NumConstraints())

	// s = t² increases across every segment by t1² - t0²
	got := rowValues(c, quadraticCoefficients(s.knots, s.order))
	want := []float64{4, 12, 20, 28}
	_, l, u := c.Matrix()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9)
		assert.Equal(t, 0.0, l[i])
		assert.True(t, math.IsInf(u[i], 1))
	}
}

func TestSmoothConstraint(t *testing.T) {
	s := newTestSpline(t)
	c := NewConstraint(s)
	require.NoError(t, c.AddThirdDerivativeSmoothConstraint())
	// 3 interior knots × derivatives 0..3
	require.Equal(t, 12, c.NumConstraints())

	got := rowValues(c, quadraticCoefficients(s.knots, s.order))
	for i, v := range got {
		assert.InDelta(t, 0, v, 1e-9, "continuity row %d", i)
	}

	// break continuity of the value at the first interior knot
	x := quadraticCoefficients(s.knots, s.order)
	x[6] += 1
	got = rowValues(c, x)
	assert.InDelta(t, -1, got[0], 1e-9)

	err := c.AddSmoothConstraint(6)
	assert.Error(t, err)
}

func TestAddBoundary(t *testing.T) {
	s := newTestSpline(t)
	c := NewConstraint(s)

	ts := []float64{0, 4, 8}
	require.NoError(t, c.AddBoundary(ts, []float64{0, 0, 0}, []float64{10, 20, math.Inf(1)}))
	require.NoError(t, c.AddDerivativeBoundary(ts, []float64{0, 0, 0}, []float64{5, 5, 5}))
	require.NoError(t, c.AddSecondDerivativeBoundary(ts[:1], []float64{-4}, []float64{2}))
	assert.Equal(t, 7, c.NumConstraints())

	got := rowValues(c, quadraticCoefficients(s.knots, s.order))
	assert.InDelta(t, 16, got[1], 1e-9)
	assert.InDelta(t, 16, got[5], 1e-9) // s'(8) = 16
	assert.InDelta(t, 2, got[6], 1e-9)
}

func TestAddBoundaryRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		ts    []float64
		lower []float64
		upper []float64
		want  error
	}{
		{"length mismatch", []float64{0, 1}, []float64{0}, []float64{1, 1}, ErrInvalidBoundary},
		{"crossed", []float64{0, 1}, []float64{0, 5}, []float64{1, 4}, ErrInvalidBoundary},
		{"nan", []float64{0}, []float64{math.NaN()}, []float64{1}, ErrInvalidBoundary},
		{"out of range", []float64{0, 9}, []float64{0, 0}, []float64{1, 1}, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConstraint(newTestSpline(t))
			err := c.AddBoundary(tt.ts, tt.lower, tt.upper)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, 0, c.NumConstraints(), "no partial rows")
		})
	}
}

func TestEmptyConstraintMatrix(t *testing.T) {
	c := NewConstraint(newTestSpline(t))
	a, l, u := c.Matrix()
	assert.Nil(t, a)
	assert.Nil(t, l)
	assert.Nil(t, u)
}
