// Package spline provides the piecewise-polynomial machinery behind the
// speed optimizer: a 1-D spline over a knot grid, the linear constraint
// rows and quadratic kernel that describe a QP over its coefficients, and a
// Generator that solves that QP with package qp.
//
// Each segment k is a polynomial of the configured order in the normalised
// local coordinate τ = (t - t_k) / h_k ∈ [0, 1], which keeps the QP well
// conditioned regardless of segment length. Coefficients are laid out
// segment by segment, order+1 per segment, lowest power first.
//
// Key types: Spline1d, Constraint, Kernel, Generator.
package spline
