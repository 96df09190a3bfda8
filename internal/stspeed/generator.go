package stspeed

import (
	"context"

	"github.com/banshee-data/velocity.plan/internal/qp"
	"github.com/banshee-data/velocity.plan/internal/spline"
)

// SplineConstraint registers the hard constraints of one cycle.
type SplineConstraint interface {
	AddPointConstraint(t, s float64) error
	AddPointDerivativeConstraint(t, v float64) error
	AddPointSecondDerivativeConstraint(t, a float64) error
	AddMonotoneInequalityConstraintAtKnots() error
	AddThirdDerivativeSmoothConstraint() error
	AddBoundary(ts, lower, upper []float64) error
	AddDerivativeBoundary(ts, lower, upper []float64) error
}

// SplineKernel accumulates the cost terms of one cycle.
type SplineKernel interface {
	AddDerivativeKernelMatrix(weight float64) error
	AddSecondOrderDerivativeMatrix(weight float64) error
	AddThirdOrderDerivativeMatrix(weight float64) error
	AddReferenceLineKernelMatrix(ts, ref []float64, weight float64) error
}

// Spline evaluates the solved profile.
type Spline interface {
	Evaluate(t float64) float64
	Derivative(t float64) float64
	SecondOrderDerivative(t float64) float64
	ThirdOrderDerivative(t float64) float64
}

// SplineGenerator owns the optimisation problem of one cycle.
type SplineGenerator interface {
	Constraint() SplineConstraint
	Kernel() SplineKernel
	Spline() Spline
	Solve(ctx context.Context) error
}

// GeneratorFactory builds a fresh generator over knots with polynomials of
// the given order.
type GeneratorFactory func(knots []float64, order int) (SplineGenerator, error)

// NewQPGeneratorFactory returns the default factory, backed by the ADMM
// solver.
func NewQPGeneratorFactory(settings qp.Settings) GeneratorFactory {
	return func(knots []float64, order int) (SplineGenerator, error) {
		g, err := spline.NewGenerator(knots, order, settings)
		if err != nil {
			return nil, err
		}
		return qpGenerator{g: g}, nil
	}
}

type qpGenerator struct {
	g *spline.Generator
}

func (q qpGenerator) Constraint() SplineConstraint    { return q.g.Constraint() }
func (q qpGenerator) Kernel() SplineKernel            { return q.g.Kernel() }
func (q qpGenerator) Spline() Spline                  { return q.g.Spline() }
func (q qpGenerator) Solve(ctx context.Context) error { return q.g.Solve(ctx) }
func (q qpGenerator) Iterations() int                 { return q.g.Iterations() }

// iterationCounter is implemented by generators that report solver effort.
type iterationCounter interface {
	Iterations() int
}
