// Package qp solves small dense convex quadratic programs
//
//	minimise   ½ xᵀPx + qᵀx
//	subject to l ≤ Ax ≤ u
//
// with the operator-splitting (ADMM) scheme popularised by OSQP: modified
// Ruiz equilibration, a cached Cholesky factorisation of the reduced KKT
// matrix, adaptive step size and primal infeasibility certificates.
// Equality rows are expressed with l == u; one-sided rows use ±Inf.
//
// The problems handled here are the spline QPs built by the speed
// optimizer: tens of variables and a few hundred rows, so dense gonum
// matrices are used throughout.
package qp
