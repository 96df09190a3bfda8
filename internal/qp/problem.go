package qp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimension is returned when the problem matrices disagree in size.
	ErrDimension = errors.New("qp: dimension mismatch")
	// ErrNotConvex is returned when the KKT matrix cannot be factorised,
	// which for a valid σ > 0 means P is not positive semi-definite.
	ErrNotConvex = errors.New("qp: kkt factorisation failed, P not positive semi-definite")
	// ErrPrimalInfeasible is returned when the iterates certify that no x
	// satisfies l ≤ Ax ≤ u.
	ErrPrimalInfeasible = errors.New("qp: problem primal infeasible")
	// ErrMaxIterations is returned when the solver did not meet its
	// tolerances within the iteration limit.
	ErrMaxIterations = errors.New("qp: maximum iterations reached")
)

// Problem is a dense convex QP. P must be symmetric positive semi-definite.
type Problem struct {
	P *mat.SymDense
	Q []float64
	A *mat.Dense
	L []float64
	U []float64
}

// Dims returns the number of variables and constraint rows.
func (p Problem) Dims() (n, m int) {
	if p.P != nil {
		n = p.P.SymmetricDim()
	}
	if p.A != nil {
		m, _ = p.A.Dims()
	}
	return n, m
}

// Validate checks sizes and bound ordering.
func (p Problem) Validate() error {
	if p.P == nil {
		return fmt.Errorf("%w: nil P", ErrDimension)
	}
	n, m := p.Dims()
	if n == 0 {
		return fmt.Errorf("%w: no variables", ErrDimension)
	}
	if len(p.Q) != n {
		return fmt.Errorf("%w: len(q)=%d, want %d", ErrDimension, len(p.Q), n)
	}
	if p.A != nil {
		if _, c := p.A.Dims(); c != n {
			return fmt.Errorf("%w: A has %d columns, want %d", ErrDimension, c, n)
		}
	}
	if len(p.L) != m || len(p.U) != m {
		return fmt.Errorf("%w: len(l)=%d len(u)=%d, want %d", ErrDimension, len(p.L), len(p.U), m)
	}
	for i := 0; i < m; i++ {
		if math.IsNaN(p.L[i]) || math.IsNaN(p.U[i]) {
			return fmt.Errorf("qp: NaN bound on row %d", i)
		}
		if p.L[i] > p.U[i] {
			return fmt.Errorf("%w: row %d has l=%g > u=%g", ErrPrimalInfeasible, i, p.L[i], p.U[i])
		}
	}
	return nil
}

// Objective evaluates ½ xᵀPx + qᵀx.
func (p Problem) Objective(x []float64) float64 {
	xv := mat.NewVecDense(len(x), x)
	var px mat.VecDense
	px.MulVec(p.P, xv)
	return 0.5*mat.Dot(xv, &px) + mat.Dot(xv, mat.NewVecDense(len(p.Q), p.Q))
}
