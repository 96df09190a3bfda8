package stspeed

import (
	"fmt"
	"time"

	"github.com/banshee-data/velocity.plan/internal/config"
	"github.com/banshee-data/velocity.plan/internal/qp"
)

// Config is the immutable tuning of a Planner.
type Config struct {
	TotalTime       float64 // horizon T (s)
	TotalPathLength float64 // default station ceiling (m)

	SplineOrder             int
	NumberOfDiscreteGraphT  int // knot intervals
	NumberOfEvaluatedGraphT int // constraint and reference sample intervals
	OutputTimeResolution    float64

	SpeedKernelWeight         float64
	AccelKernelWeight         float64
	JerkKernelWeight          float64
	ReferenceLineKernelWeight float64
	FollowKernelWeight        float64

	MaxSpeed float64 // back-fill for the speed ceiling (m/s)

	Solver       qp.Settings
	SolveTimeout time.Duration // zero disables the per-solve deadline
}

// ConfigFromTuning builds a Config from a tuning file, falling back to the
// built-in defaults for omitted keys.
func ConfigFromTuning(t *config.TuningConfig) Config {
	if t == nil {
		t = config.EmptyTuningConfig()
	}
	solver := qp.DefaultSettings()
	solver.MaxIterations = t.GetSolverMaxIterations()
	solver.EpsAbs = t.GetSolverEpsAbs()
	solver.EpsRel = t.GetSolverEpsRel()

	return Config{
		TotalTime:                 t.GetTotalTime(),
		TotalPathLength:           t.GetTotalPathLength(),
		SplineOrder:               t.GetSplineOrder(),
		NumberOfDiscreteGraphT:    t.GetNumberOfDiscreteGraphT(),
		NumberOfEvaluatedGraphT:   t.GetNumberOfEvaluatedGraphT(),
		OutputTimeResolution:      t.GetOutputTimeResolution(),
		SpeedKernelWeight:         t.GetSpeedKernelWeight(),
		AccelKernelWeight:         t.GetAccelKernelWeight(),
		JerkKernelWeight:          t.GetJerkKernelWeight(),
		ReferenceLineKernelWeight: t.GetReferenceLineKernelWeight(),
		FollowKernelWeight:        t.GetFollowKernelWeight(),
		MaxSpeed:                  t.GetMaxSpeed(),
		Solver:                    solver,
		SolveTimeout:              t.GetSolveTimeout(),
	}
}

// DefaultConfig loads the canonical defaults file. It panics when the file
// cannot be found, so it is meant for tests and tools run from the repo.
func DefaultConfig() Config {
	return ConfigFromTuning(config.MustLoadDefaultConfig())
}

// Validate rejects configurations the planner cannot run with.
func (c Config) Validate() error {
	switch {
	case !(c.TotalTime > 0):
		return fmt.Errorf("total time must be positive, got %v", c.TotalTime)
	case !(c.TotalPathLength >= 0):
		return fmt.Errorf("total path length must be non-negative, got %v", c.TotalPathLength)
	case c.SplineOrder < 3:
		return fmt.Errorf("spline order must be at least 3, got %d", c.SplineOrder)
	case c.NumberOfDiscreteGraphT < 1:
		return fmt.Errorf("number of discrete graph t must be positive, got %d", c.NumberOfDiscreteGraphT)
	case c.NumberOfEvaluatedGraphT < 1:
		return fmt.Errorf("number of evaluated graph t must be positive, got %d", c.NumberOfEvaluatedGraphT)
	case !(c.OutputTimeResolution > 0):
		return fmt.Errorf("output time resolution must be positive, got %v", c.OutputTimeResolution)
	case c.SpeedKernelWeight < 0, c.AccelKernelWeight < 0, c.JerkKernelWeight < 0,
		c.ReferenceLineKernelWeight < 0, c.FollowKernelWeight < 0:
		return fmt.Errorf("kernel weights must be non-negative")
	case !(c.MaxSpeed > 0):
		return fmt.Errorf("max speed must be positive, got %v", c.MaxSpeed)
	case c.SolveTimeout < 0:
		return fmt.Errorf("solve timeout must be non-negative, got %s", c.SolveTimeout)
	}
	return nil
}
