package stboundary

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// BoundaryType tags the decision an obstacle boundary came from.
type BoundaryType int

const (
	Unknown BoundaryType = iota
	Stop
	Follow
	Yield
	Overtake
)

var typeNames = map[BoundaryType]string{
	Unknown:  "unknown",
	Stop:     "stop",
	Follow:   "follow",
	Yield:    "yield",
	Overtake: "overtake",
}

// String returns the lower-case type name.
func (bt BoundaryType) String() string {
	if name, ok := typeNames[bt]; ok {
		return name
	}
	return fmt.Sprintf("BoundaryType(%d)", int(bt))
}

// IsBlocking reports whether the boundary caps travelled distance.
func (bt BoundaryType) IsBlocking() bool {
	return bt == Stop || bt == Follow || bt == Yield
}

// ParseBoundaryType maps a type name back to its BoundaryType.
func ParseBoundaryType(name string) (BoundaryType, error) {
	for bt, n := range typeNames {
		if n == name {
			return bt, nil
		}
	}
	return Unknown, fmt.Errorf("unknown boundary type %q", name)
}

var (
	// ErrTooFewPoints is returned when a boundary has fewer than two points.
	ErrTooFewPoints = errors.New("boundary needs at least two points")
	// ErrUnorderedTime is returned when boundary times are not increasing.
	ErrUnorderedTime = errors.New("boundary times must be strictly increasing")
	// ErrCrossedRange is returned when a point has SLower > SUpper.
	ErrCrossedRange = errors.New("boundary lower station above upper station")
)

// Point is one time slice of a boundary: at time T the obstacle occupies
// stations [SLower, SUpper] along the path.
type Point struct {
	T      float64 `json:"t"`
	SLower float64 `json:"s_lower"`
	SUpper float64 `json:"s_upper"`
}

// Boundary is an obstacle region in the ST plane, defined by time slices and
// linearly interpolated between them.
type Boundary struct {
	ID                   string
	Type                 BoundaryType
	CharacteristicLength float64 // follow gap (m); unused for other types

	points []Point
}

// New validates the slices and returns a Boundary.
func New(id string, bt BoundaryType, points []Point) (*Boundary, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("boundary %q: %w", id, ErrTooFewPoints)
	}
	for i, p := range points {
		if math.IsNaN(p.T) || math.IsNaN(p.SLower) || math.IsNaN(p.SUpper) {
			return nil, fmt.Errorf("boundary %q: NaN in point %d", id, i)
		}
		if p.SLower > p.SUpper {
			return nil, fmt.Errorf("boundary %q point %d (t=%.3f): %w", id, i, p.T, ErrCrossedRange)
		}
		if i > 0 && p.T <= points[i-1].T {
			return nil, fmt.Errorf("boundary %q point %d (t=%.3f): %w", id, i, p.T, ErrUnorderedTime)
		}
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	return &Boundary{ID: id, Type: bt, points: pts}, nil
}

// NewFollow builds a follow boundary with the given safety gap.
func NewFollow(id string, characteristicLength float64, points []Point) (*Boundary, error) {
	b, err := New(id, Follow, points)
	if err != nil {
		return nil, err
	}
	b.CharacteristicLength = characteristicLength
	return b, nil
}

// NewStop builds a stop boundary: a wall at station s held over [t0, t1].
func NewStop(id string, s, t0, t1 float64) (*Boundary, error) {
	return New(id, Stop, []Point{
		{T: t0, SLower: s, SUpper: s},
		{T: t1, SLower: s, SUpper: s},
	})
}

// Points returns a copy of the time slices.
func (b *Boundary) Points() []Point {
	out := make([]Point, len(b.points))
	copy(out, b.points)
	return out
}

// TimeRange returns the first and last time covered by the boundary.
func (b *Boundary) TimeRange() (float64, float64) {
	return b.points[0].T, b.points[len(b.points)-1].T
}

// Occupied returns the interpolated station range the obstacle covers at
// time t. ok is false when the boundary is not active at t.
func (b *Boundary) Occupied(t float64) (sLower, sUpper float64, ok bool) {
	t0, t1 := b.TimeRange()
	if t < t0 || t > t1 {
		return 0, 0, false
	}

	i := sort.Search(len(b.points), func(k int) bool { return b.points[k].T >= t })
	if b.points[i].T == t || i == 0 {
		return b.points[i].SLower, b.points[i].SUpper, true
	}
	lo, hi := b.points[i-1], b.points[i]
	frac := (t - lo.T) / (hi.T - lo.T)
	sLower = lo.SLower + frac*(hi.SLower-lo.SLower)
	sUpper = lo.SUpper + frac*(hi.SUpper-lo.SUpper)
	return sLower, sUpper, true
}

// UnblockedRange returns the station gap left free by the obstacle at time
// t. Blocking boundaries leave [0, near edge]; every other type leaves
// [far edge, +Inf). ok is false when the boundary is not active at t.
func (b *Boundary) UnblockedRange(t float64) (sUpper, sLower float64, ok bool) {
	occLower, occUpper, ok := b.Occupied(t)
	if !ok {
		return 0, 0, false
	}
	if b.Type.IsBlocking() {
		return occLower, 0, true
	}
	return math.Inf(1), occUpper, true
}

// String summarises the boundary for logs.
func (b *Boundary) String() string {
	t0, t1 := b.TimeRange()
	return fmt.Sprintf("boundary %s type=%s t=[%.2f, %.2f] points=%d", b.ID, b.Type, t0, t1, len(b.points))
}
