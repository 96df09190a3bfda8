package stspeed

import (
	"math"

	"github.com/banshee-data/velocity.plan/internal/speedlimit"
	"github.com/banshee-data/velocity.plan/internal/stboundary"
)

// applyKernel adds the cost terms of the cycle.
func (c *cycle) applyKernel(boundaries []*stboundary.Boundary, limit *speedlimit.SpeedLimit) error {
	k := c.generator.Kernel()

	if w := c.cfg.SpeedKernelWeight; w > 0 {
		if err := k.AddDerivativeKernelMatrix(w); err != nil {
			return kernelError("add speed kernel failed", err)
		}
	}
	if w := c.cfg.AccelKernelWeight; w > 0 {
		if err := k.AddSecondOrderDerivativeMatrix(w); err != nil {
			return kernelError("add accel kernel failed", err)
		}
	}
	if w := c.cfg.JerkKernelWeight; w > 0 {
		if err := k.AddThirdOrderDerivativeMatrix(w); err != nil {
			return kernelError("add jerk kernel failed", err)
		}
	}

	if err := c.addCruiseReferenceLineKernel(k, limit); err != nil {
		return err
	}
	return c.addFollowReferenceLineKernel(k, boundaries)
}

func (c *cycle) addCruiseReferenceLineKernel(k SplineKernel, limit *speedlimit.SpeedLimit) error {
	if limit.Len() == 0 {
		return inputError("apply kernel", "add cruise reference line kernel failed: speed limit is empty", nil)
	}
	w := c.cfg.ReferenceLineKernelWeight
	if w == 0 {
		return nil
	}
	ref := CruiseReference(c.tEvaluated, limit)
	if err := k.AddReferenceLineKernelMatrix(c.tEvaluated, ref, w); err != nil {
		return kernelError("add cruise reference line kernel failed", err)
	}
	return nil
}

func (c *cycle) addFollowReferenceLineKernel(k SplineKernel, boundaries []*stboundary.Boundary) error {
	w := c.cfg.FollowKernelWeight
	if w == 0 {
		return nil
	}
	ts, ref := FollowReference(c.tEvaluated, boundaries)
	if len(ts) == 0 {
		return nil
	}
	if err := k.AddReferenceLineKernelMatrix(ts, ref, w); err != nil {
		return kernelError("add follow reference line kernel failed", err)
	}
	return nil
}

// CruiseReference integrates the speed limit forward over tEvaluated,
// starting from station 0. The curve must not be empty.
func CruiseReference(tEvaluated []float64, limit *speedlimit.SpeedLimit) []float64 {
	ref := make([]float64, len(tEvaluated))
	for i := 1; i < len(tEvaluated); i++ {
		dt := tEvaluated[i] - tEvaluated[i-1]
		ref[i] = ref[i-1] + dt*limit.VmaxAt(ref[i-1])
	}
	return ref
}

// FollowReference returns the evaluation times with at least one active
// follow boundary, and for each the station that keeps the characteristic
// gap behind the closest of them.
func FollowReference(tEvaluated []float64, boundaries []*stboundary.Boundary) (ts, ref []float64) {
	for _, t := range tEvaluated {
		target := math.Inf(1)
		for _, b := range boundaries {
			if b.Type != stboundary.Follow {
				continue
			}
			sUpper, _, ok := b.UnblockedRange(t)
			if !ok {
				continue
			}
			target = math.Min(target, sUpper-b.CharacteristicLength)
		}
		if !math.IsInf(target, 1) {
			ts = append(ts, t)
			ref = append(ref, target)
		}
	}
	return ts, ref
}
