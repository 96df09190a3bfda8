package spline

import (
	"context"
	"errors"
	"fmt"

	"github.com/banshee-data/velocity.plan/internal/qp"
	"gonum.org/v1/gonum/mat"
)

// ErrNoConstraints is returned when Solve is called with an empty
// constraint set and a singular cost.
var ErrNoConstraints = errors.New("spline: no constraints registered")

// Generator owns one spline together with the constraint rows and kernel
// that define its coefficient QP.
type Generator struct {
	spline     *Spline1d
	constraint *Constraint
	kernel     *Kernel
	settings   qp.Settings

	lastResult *qp.Result
}

// NewGenerator builds a zero spline over knots with its empty QP.
func NewGenerator(knots []float64, order int, settings qp.Settings) (*Generator, error) {
	s, err := NewSpline1d(knots, order)
	if err != nil {
		return nil, err
	}
	return &Generator{
		spline:     s,
		constraint: NewConstraint(s),
		kernel:     NewKernel(s),
		settings:   settings,
	}, nil
}

// Spline returns the spline; its coefficients are meaningful after Solve.
func (g *Generator) Spline() *Spline1d { return g.spline }

// Constraint returns the mutable constraint set.
func (g *Generator) Constraint() *Constraint { return g.constraint }

// Kernel returns the mutable cost.
func (g *Generator) Kernel() *Kernel { return g.kernel }

// Problem assembles the QP ½xᵀPx + qᵀx, l ≤ Ax ≤ u with P = 2K, q = g.
func (g *Generator) Problem() qp.Problem {
	k, lin := g.kernel.Matrix()
	p := mat.NewSymDense(g.spline.NumParams(), nil)
	p.ScaleSym(2, k)
	a, l, u := g.constraint.Matrix()
	return qp.Problem{P: p, Q: lin, A: a, L: l, U: u}
}

// Solve runs the QP and writes the optimal coefficients into the spline.
// On failure the spline keeps its previous coefficients.
func (g *Generator) Solve(ctx context.Context) error {
	res, err := qp.Solve(ctx, g.Problem(), g.settings)
	if err != nil {
		if g.constraint.NumConstraints() == 0 && errors.Is(err, qp.ErrNotConvex) {
			return fmt.Errorf("%w: %v", ErrNoConstraints, err)
		}
		return err
	}
	if err := g.spline.SetCoefficients(res.X); err != nil {
		return err
	}
	g.lastResult = res
	return nil
}

// Iterations returns the solver iteration count of the last successful
// Solve, or 0.
func (g *Generator) Iterations() int {
	if g.lastResult == nil {
		return 0
	}
	return g.lastResult.Iterations
}
