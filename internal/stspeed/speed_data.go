package stspeed

import (
	"math"
	"sort"
)

// SpeedPoint is one sample of the planned profile.
type SpeedPoint struct {
	S  float64 `json:"s"`  // station (m)
	T  float64 `json:"t"`  // time since cycle start (s)
	V  float64 `json:"v"`  // speed (m/s)
	A  float64 `json:"a"`  // acceleration (m/s²)
	Da float64 `json:"da"` // jerk (m/s³)
}

// SpeedData is the time-ordered output of one planning cycle.
type SpeedData struct {
	points []SpeedPoint
}

// AppendSpeedPoint adds a sample; callers append in increasing time.
func (d *SpeedData) AppendSpeedPoint(s, t, v, a, da float64) {
	d.points = append(d.points, SpeedPoint{S: s, T: t, V: v, A: a, Da: da})
}

// Points returns a copy of the samples.
func (d *SpeedData) Points() []SpeedPoint {
	if d == nil {
		return nil
	}
	out := make([]SpeedPoint, len(d.points))
	copy(out, d.points)
	return out
}

// Len returns the number of samples.
func (d *SpeedData) Len() int {
	if d == nil {
		return 0
	}
	return len(d.points)
}

// Clear drops every sample.
func (d *SpeedData) Clear() { d.points = d.points[:0] }

// TotalTime returns the time of the last sample.
func (d *SpeedData) TotalTime() float64 {
	if d.Len() == 0 {
		return 0
	}
	return d.points[len(d.points)-1].T
}

// TotalDistance returns the station travelled between the first and last
// sample.
func (d *SpeedData) TotalDistance() float64 {
	if d.Len() == 0 {
		return 0
	}
	return d.points[len(d.points)-1].S - d.points[0].S
}

// MaxSpeed returns the highest sampled speed.
func (d *SpeedData) MaxSpeed() float64 {
	if d.Len() == 0 {
		return 0
	}
	best := d.points[0].V
	for _, p := range d.points[1:] {
		best = math.Max(best, p.V)
	}
	return best
}

// At interpolates the profile linearly at time t. ok is false when t lies
// outside the sampled range.
func (d *SpeedData) At(t float64) (SpeedPoint, bool) {
	n := d.Len()
	if n == 0 || math.IsNaN(t) || t < d.points[0].T || t > d.points[n-1].T {
		return SpeedPoint{}, false
	}
	i := sort.Search(n, func(k int) bool { return d.points[k].T >= t })
	if d.points[i].T == t || i == 0 {
		return d.points[i], true
	}
	lo, hi := d.points[i-1], d.points[i]
	frac := (t - lo.T) / (hi.T - lo.T)
	lerp := func(a, b float64) float64 { return a + frac*(b-a) }
	return SpeedPoint{
		S:  lerp(lo.S, hi.S),
		T:  t,
		V:  lerp(lo.V, hi.V),
		A:  lerp(lo.A, hi.A),
		Da: lerp(lo.Da, hi.Da),
	}, true
}
