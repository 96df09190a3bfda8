package spline

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInvalidKnots is returned for fewer than two or non-increasing knots.
	ErrInvalidKnots = errors.New("spline: knots must be strictly increasing with at least two entries")
	// ErrInvalidOrder is returned for a negative polynomial order.
	ErrInvalidOrder = errors.New("spline: order must be non-negative")
	// ErrCoefficientCount is returned when a coefficient vector has the wrong length.
	ErrCoefficientCount = errors.New("spline: wrong number of coefficients")
)

// Spline1d is a piecewise polynomial over a knot grid.
type Spline1d struct {
	knots []float64
	order int
	coef  []float64
}

// NewSpline1d returns a zero spline of the given order over knots.
func NewSpline1d(knots []float64, order int) (*Spline1d, error) {
	if order < 0 {
		return nil, ErrInvalidOrder
	}
	if len(knots) < 2 {
		return nil, ErrInvalidKnots
	}
	for i := 1; i < len(knots); i++ {
		if !(knots[i] > knots[i-1]) {
			return nil, fmt.Errorf("%w: knot %d (%g) after %g", ErrInvalidKnots, i, knots[i], knots[i-1])
		}
	}
	s := &Spline1d{
		knots: append([]float64(nil), knots...),
		order: order,
	}
	s.coef = make([]float64, s.NumParams())
	return s, nil
}

// Knots returns a copy of the knot grid.
func (s *Spline1d) Knots() []float64 {
	return append([]float64(nil), s.knots...)
}

// Order returns the polynomial degree of each segment.
func (s *Spline1d) Order() int { return s.order }

// NumSegments returns the number of polynomial pieces.
func (s *Spline1d) NumSegments() int { return len(s.knots) - 1 }

// NumParams returns the length of the coefficient vector.
func (s *Spline1d) NumParams() int { return s.NumSegments() * (s.order + 1) }

// SetCoefficients replaces the coefficient vector.
func (s *Spline1d) SetCoefficients(x []float64) error {
	if len(x) != len(s.coef) {
		return fmt.Errorf("%w: got %d, want %d", ErrCoefficientCount, len(x), len(s.coef))
	}
	copy(s.coef, x)
	return nil
}

// Coefficients returns a copy of the coefficient vector.
func (s *Spline1d) Coefficients() []float64 {
	return append([]float64(nil), s.coef...)
}

// Evaluate returns s(t).
func (s *Spline1d) Evaluate(t float64) float64 { return s.derivativeAt(t, 0) }

// Derivative returns s'(t).
func (s *Spline1d) Derivative(t float64) float64 { return s.derivativeAt(t, 1) }

// SecondOrderDerivative returns s''(t).
func (s *Spline1d) SecondOrderDerivative(t float64) float64 { return s.derivativeAt(t, 2) }

// ThirdOrderDerivative returns s'''(t).
func (s *Spline1d) ThirdOrderDerivative(t float64) float64 { return s.derivativeAt(t, 3) }

func (s *Spline1d) derivativeAt(t float64, d int) float64 {
	seg, tau := s.locate(t)
	row := s.segmentRow(seg, tau, d)
	off := seg * (s.order + 1)
	v := 0.0
	for j, b := range row {
		v += b * s.coef[off+j]
	}
	return v
}

// locate returns the segment containing t and the local coordinate. Times
// outside the knot span extrapolate the first or last segment.
func (s *Spline1d) locate(t float64) (int, float64) {
	n := s.NumSegments()
	seg := 0
	switch {
	case t <= s.knots[0]:
		seg = 0
	case t >= s.knots[n]:
		seg = n - 1
	default:
		// first knot strictly greater than t, minus one
		seg = sort.Search(len(s.knots), func(k int) bool { return s.knots[k] > t }) - 1
	}
	h := s.knots[seg+1] - s.knots[seg]
	return seg, (t - s.knots[seg]) / h
}

// segmentRow returns the d-th time derivative of the segment basis
// (1, τ, …, τ^order) at local coordinate tau.
func (s *Spline1d) segmentRow(seg int, tau float64, d int) []float64 {
	h := s.knots[seg+1] - s.knots[seg]
	scale := math.Pow(h, -float64(d))
	row := make([]float64, s.order+1)
	for j := d; j <= s.order; j++ {
		row[j] = fallingFactorial(j, d) * math.Pow(tau, float64(j-d)) * scale
	}
	return row
}

// basisRow returns a full-length row r with r·coef = s^(d)(t).
func (s *Spline1d) basisRow(t float64, d int) []float64 {
	seg, tau := s.locate(t)
	return s.placeRow(seg, s.segmentRow(seg, tau, d))
}

func (s *Spline1d) placeRow(seg int, segRow []float64) []float64 {
	row := make([]float64, s.NumParams())
	copy(row[seg*(s.order+1):], segRow)
	return row
}

// fallingFactorial returns j·(j-1)·…·(j-d+1), the coefficient produced by
// differentiating τ^j d times.
func fallingFactorial(j, d int) float64 {
	if d > j {
		return 0
	}
	v := 1.0
	for k := 0; k < d; k++ {
		v *= float64(j - k)
	}
	return v
}
