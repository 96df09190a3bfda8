package spline

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidBoundary is returned for mismatched, NaN or crossed bounds.
	ErrInvalidBoundary = errors.New("spline: invalid boundary")
	// ErrOutOfRange is returned when a constraint time is outside the knots.
	ErrOutOfRange = errors.New("spline: time outside knot span")
)

// knotTolerance absorbs floating drift in times computed as i*step.
const knotTolerance = 1e-9

// Constraint collects linear rows lower ≤ row·x ≤ upper over the spline
// coefficients x.
type Constraint struct {
	spline *Spline1d
	rows   [][]float64
	lower  []float64
	upper  []float64
}

// NewConstraint returns an empty constraint set for s.
func NewConstraint(s *Spline1d) *Constraint {
	return &Constraint{spline: s}
}

// NumConstraints returns the number of registered rows.
func (c *Constraint) NumConstraints() int { return len(c.rows) }

// Matrix returns the stacked rows and their bounds. It returns a nil matrix
// when no rows were added.
func (c *Constraint) Matrix() (*mat.Dense, []float64, []float64) {
	if len(c.rows) == 0 {
		return nil, nil, nil
	}
	n := c.spline.NumParams()
	a := mat.NewDense(len(c.rows), n, nil)
	for i, row := range c.rows {
		a.SetRow(i, row)
	}
	return a, append([]float64(nil), c.lower...), append([]float64(nil), c.upper...)
}

func (c *Constraint) add(row []float64, lower, upper float64) {
	c.rows = append(c.rows, row)
	c.lower = append(c.lower, lower)
	c.upper = append(c.upper, upper)
}

func (c *Constraint) checkTime(t float64) error {
	k := c.spline.knots
	if math.IsNaN(t) || t < k[0]-knotTolerance || t > k[len(k)-1]+knotTolerance {
		return fmt.Errorf("%w: t=%g not in [%g, %g]", ErrOutOfRange, t, k[0], k[len(k)-1])
	}
	return nil
}

func (c *Constraint) addPoint(t float64, d int, value float64) error {
	if err := c.checkTime(t); err != nil {
		return err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: non-finite value %g at t=%g", ErrInvalidBoundary, value, t)
	}
	c.add(c.spline.basisRow(t, d), value, value)
	return nil
}

// AddPointConstraint pins s(t) = value.
func (c *Constraint) AddPointConstraint(t, value float64) error {
	return c.addPoint(t, 0, value)
}

// AddPointDerivativeConstraint pins s'(t) = value.
func (c *Constraint) AddPointDerivativeConstraint(t, value float64) error {
	return c.addPoint(t, 1, value)
}

// AddPointSecondDerivativeConstraint pins s''(t) = value.
func (c *Constraint) AddPointSecondDerivativeConstraint(t, value float64) error {
	return c.addPoint(t, 2, value)
}

// AddPointThirdDerivativeConstraint pins s'''(t) = value.
func (c *Constraint) AddPointThirdDerivativeConstraint(t, value float64) error {
	return c.addPoint(t, 3, value)
}

// AddMonotoneInequalityConstraintAtKnots requires each segment to end at or
// above where it starts, so s is non-decreasing knot to knot.
func (c *Constraint) AddMonotoneInequalityConstraintAtKnots() error {
	s := c.spline
	for seg := 0; seg < s.NumSegments(); seg++ {
		end := s.segmentRow(seg, 1, 0)
		start := s.segmentRow(seg, 0, 0)
		for j := range end {
			end[j] -= start[j]
		}
		c.add(s.placeRow(seg, end), 0, math.Inf(1))
	}
	return nil
}

// AddSmoothConstraint joins neighbouring segments so that s and its first
// `order` derivatives are continuous at every interior knot.
func (c *Constraint) AddSmoothConstraint(order int) error {
	s := c.spline
	if order < 0 || order > s.order {
		return fmt.Errorf("spline: smoothness order %d outside [0, %d]", order, s.order)
	}
	width := s.order + 1
	for seg := 0; seg+1 < s.NumSegments(); seg++ {
		for d := 0; d <= order; d++ {
			row := make([]float64, s.NumParams())
			copy(row[seg*width:], s.segmentRow(seg, 1, d))
			next := s.segmentRow(seg+1, 0, d)
			for j, v := range next {
				row[(seg+1)*width+j] -= v
			}
			c.add(row, 0, 0)
		}
	}
	return nil
}

// AddThirdDerivativeSmoothConstraint is AddSmoothConstraint(3).
func (c *Constraint) AddThirdDerivativeSmoothConstraint() error {
	return c.AddSmoothConstraint(3)
}

// AddBoundary bounds s(ts[i]) within [lower[i], upper[i]]. Infinite bounds
// are allowed; crossed bounds are rejected.
func (c *Constraint) AddBoundary(ts, lower, upper []float64) error {
	return c.addBoundary(ts, lower, upper, 0)
}

// AddDerivativeBoundary bounds s'(ts[i]) within [lower[i], upper[i]].
func (c *Constraint) AddDerivativeBoundary(ts, lower, upper []float64) error {
	return c.addBoundary(ts, lower, upper, 1)
}

// AddSecondDerivativeBoundary bounds s''(ts[i]) within [lower[i], upper[i]].
func (c *Constraint) AddSecondDerivativeBoundary(ts, lower, upper []float64) error {
	return c.addBoundary(ts, lower, upper, 2)
}

func (c *Constraint) addBoundary(ts, lower, upper []float64, d int) error {
	if len(ts) != len(lower) || len(ts) != len(upper) {
		return fmt.Errorf("%w: %d times, %d lower, %d upper", ErrInvalidBoundary, len(ts), len(lower), len(upper))
	}
	// validate everything before touching the row set
	for i, t := range ts {
		if err := c.checkTime(t); err != nil {
			return err
		}
		if math.IsNaN(lower[i]) || math.IsNaN(upper[i]) {
			return fmt.Errorf("%w: NaN bound at t=%g", ErrInvalidBoundary, t)
		}
		if lower[i] > upper[i] {
			return fmt.Errorf("%w: lower %g above upper %g at t=%g", ErrInvalidBoundary, lower[i], upper[i], t)
		}
	}
	for i, t := range ts {
		c.add(c.spline.basisRow(t, d), lower[i], upper[i])
	}
	return nil
}
