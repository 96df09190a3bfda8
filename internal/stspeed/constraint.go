package stspeed

import (
	"fmt"

	"github.com/banshee-data/velocity.plan/internal/monitoring"
	"github.com/banshee-data/velocity.plan/internal/speedlimit"
	"github.com/banshee-data/velocity.plan/internal/stboundary"
)

// applyConstraint registers the hard constraints of the cycle. The first
// failure aborts the phase; its message names the step.
func (c *cycle) applyConstraint(init InitPoint, limit *speedlimit.SpeedLimit, boundaries []*stboundary.Boundary) error {
	con := c.generator.Constraint()
	tEnd := c.tKnots[len(c.tKnots)-1]

	if err := con.AddPointConstraint(0, 0); err != nil {
		return constraintError("add st start point constraint failed", err)
	}
	if err := con.AddPointDerivativeConstraint(0, init.V); err != nil {
		return constraintError("add st start point velocity constraint failed", err)
	}
	if err := con.AddPointSecondDerivativeConstraint(0, init.A); err != nil {
		return constraintError("add st start point acceleration constraint failed", err)
	}
	if err := con.AddPointSecondDerivativeConstraint(tEnd, 0); err != nil {
		return constraintError("add st end point acceleration constraint failed", err)
	}
	if err := con.AddMonotoneInequalityConstraintAtKnots(); err != nil {
		return constraintError("add monotone inequality constraint failed", err)
	}
	if err := con.AddThirdDerivativeSmoothConstraint(); err != nil {
		return constraintError("add smoothness joint constraint failed", err)
	}

	sUpper := make([]float64, len(c.tEvaluated))
	sLower := make([]float64, len(c.tEvaluated))
	for i, t := range c.tEvaluated {
		upper, lower := SConstraintByTime(boundaries, t, c.cfg.TotalPathLength)
		if lower > upper {
			return constraintError("add st boundary constraint failed",
				fmt.Errorf("distance window crossed at t=%.3f: lower %.3f above upper %.3f", t, lower, upper))
		}
		sUpper[i], sLower[i] = upper, lower
		monitoring.Debugf("t=%.3f s window [%.3f, %.3f]", t, lower, upper)
	}
	if err := con.AddBoundary(c.tEvaluated, sLower, sUpper); err != nil {
		return constraintError("add st boundary constraint failed", err)
	}

	speedUpper := EstimateSpeedUpperBound(init, limit, c.tEvaluated, c.cfg.MaxSpeed)
	speedLower := make([]float64, len(c.tEvaluated))
	if err := con.AddDerivativeBoundary(c.tEvaluated, speedLower, speedUpper); err != nil {
		return constraintError("add speed constraint failed", err)
	}
	return nil
}
