package stspeed

import (
	"math"

	"github.com/banshee-data/velocity.plan/internal/monitoring"
	"github.com/banshee-data/velocity.plan/internal/speedlimit"
)

// distanceEpsilon is the tolerance for matching a projected station to a
// speed limit breakpoint.
const distanceEpsilon = 1e-6

// InitPoint is the vehicle state at the start of the horizon.
type InitPoint struct {
	V float64 `json:"v"` // speed (m/s)
	A float64 `json:"a"` // acceleration (m/s²)
}

// EstimateSpeedUpperBound returns one speed ceiling per evaluation time.
// Each time is projected to a station at the constant initial speed and
// looked up on the speed limit curve; times the walk does not reach are
// filled with maxSpeed.
func EstimateSpeedUpperBound(init InitPoint, limit *speedlimit.SpeedLimit, tEvaluated []float64, maxSpeed float64) []float64 {
	bounds := make([]float64, 0, len(tEvaluated))

	i, j := 0, 0
	for i < len(tEvaluated) && j+1 < limit.Len() {
		distance := init.V * tEvaluated[i]
		curr, next := limit.At(j), limit.At(j+1)
		switch {
		case math.Abs(distance-curr.S) < distanceEpsilon:
			bounds = append(bounds, curr.V)
			i++
		case next.S < distance:
			j++
		default:
			bounds = append(bounds, limit.VmaxAt(distance))
			i++
		}
	}

	if len(bounds) == 0 {
		monitoring.Debugf("speed ceiling: walk produced no bounds over %d breakpoints", limit.Len())
	}
	for k := len(bounds); k < len(tEvaluated); k++ {
		bounds = append(bounds, maxSpeed)
	}
	return bounds
}
