package stspeed

import (
	"math"

	"github.com/banshee-data/velocity.plan/internal/stboundary"
)

// SConstraintByTime returns the obstacle-free station window at time t.
// Each active boundary contributes its unblocked range: blocking types
// (stop, follow, yield) cap the upper bound and any other type raises the
// lower bound. The result is not checked for lower <= upper.
func SConstraintByTime(boundaries []*stboundary.Boundary, t, totalPathLength float64) (upper, lower float64) {
	upper, lower = totalPathLength, 0
	for _, b := range boundaries {
		sUpper, sLower, ok := b.UnblockedRange(t)
		if !ok {
			continue
		}
		upper = math.Min(upper, sUpper)
		lower = math.Max(lower, sLower)
	}
	return upper, lower
}
