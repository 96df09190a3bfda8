// Package speedlimit holds the speed ceiling curve along the planned path.
//
// The curve is an ordered list of (station, max speed) breakpoints produced
// upstream from road and curvature limits. Lookups interpolate linearly
// between breakpoints and clamp outside the covered range.
package speedlimit

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrNonMonotone is returned when breakpoints are not ordered by station.
	ErrNonMonotone = errors.New("speed limit stations must be non-decreasing")
	// ErrInvalidSpeed is returned for negative or non-finite speeds.
	ErrInvalidSpeed = errors.New("speed limit must be finite and non-negative")
)

// Point is one breakpoint of the speed limit curve.
type Point struct {
	S float64 `json:"s"` // station along the path (m)
	V float64 `json:"v"` // maximum speed at S (m/s)
}

// SpeedLimit is a piecewise-linear speed ceiling over station.
type SpeedLimit struct {
	points []Point
}

// New builds a SpeedLimit from breakpoints, validating their order.
func New(points []Point) (*SpeedLimit, error) {
	sl := &SpeedLimit{points: make([]Point, 0, len(points))}
	for _, p := range points {
		if err := sl.AppendPoint(p.S, p.V); err != nil {
			return nil, err
		}
	}
	return sl, nil
}

// Constant returns a two-point curve holding v over [0, length].
func Constant(v, length float64) *SpeedLimit {
	return &SpeedLimit{points: []Point{{S: 0, V: v}, {S: length, V: v}}}
}

// AppendPoint adds a breakpoint after the current last one.
func (sl *SpeedLimit) AppendPoint(s, v float64) error {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return fmt.Errorf("%w: station %v", ErrNonMonotone, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: got %v at s=%.3f", ErrInvalidSpeed, v, s)
	}
	if n := len(sl.points); n > 0 && s < sl.points[n-1].S {
		return fmt.Errorf("%w: s=%.3f after s=%.3f", ErrNonMonotone, s, sl.points[n-1].S)
	}
	sl.points = append(sl.points, Point{S: s, V: v})
	return nil
}

// Points returns a copy of the breakpoints.
func (sl *SpeedLimit) Points() []Point {
	if sl == nil {
		return nil
	}
	out := make([]Point, len(sl.points))
	copy(out, sl.points)
	return out
}

// Len returns the number of breakpoints. A nil curve has length zero.
func (sl *SpeedLimit) Len() int {
	if sl == nil {
		return 0
	}
	return len(sl.points)
}

// At returns the i-th breakpoint.
func (sl *SpeedLimit) At(i int) Point {
	return sl.points[i]
}

// VmaxAt returns the speed limit at station s. Before the first breakpoint
// the first value applies, past the last one the last value applies. An
// empty curve yields 0; callers are expected to reject empty curves first.
func (sl *SpeedLimit) VmaxAt(s float64) float64 {
	n := sl.Len()
	if n == 0 {
		return 0
	}
	if s <= sl.points[0].S {
		return sl.points[0].V
	}
	if s >= sl.points[n-1].S {
		return sl.points[n-1].V
	}

	// first breakpoint with S >= s
	i := sort.Search(n, func(k int) bool { return sl.points[k].S >= s })
	hi := sl.points[i]
	lo := sl.points[i-1]
	span := hi.S - lo.S
	if span <= 0 {
		return hi.V
	}
	frac := (s - lo.S) / span
	return lo.V + frac*(hi.V-lo.V)
}

// MinVmax returns the lowest speed limit on the curve, or 0 when empty.
func (sl *SpeedLimit) MinVmax() float64 {
	if sl.Len() == 0 {
		return 0
	}
	minV := sl.points[0].V
	for _, p := range sl.points[1:] {
		minV = math.Min(minV, p.V)
	}
	return minV
}
