package qp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// scaledProblem holds an equilibrated copy of a Problem:
//
//	P̂ = c·D P D,  q̂ = c·D q,  Â = E A D,  l̂ = E l,  û = E u
type scaledProblem struct {
	n, m int
	P    *mat.SymDense
	q    []float64
	A    *mat.Dense
	l, u []float64

	D []float64 // variable scaling
	E []float64 // constraint scaling
	c float64   // cost scaling
}

func limitScaling(v float64) float64 {
	if v < minScaling {
		return 1
	}
	if v > maxScaling {
		return maxScaling
	}
	return v
}

// equilibrate runs modified Ruiz equilibration on the KKT matrix
// [P Aᵀ; A 0] followed by cost scaling, as in OSQP.
func equilibrate(p Problem, iterations int) *scaledProblem {
	n, m := p.Dims()
	sp := &scaledProblem{
		n: n,
		m: m,
		P: mat.NewSymDense(n, nil),
		q: append([]float64(nil), p.Q...),
		A: mat.DenseCopyOf(p.A),
		l: make([]float64, m),
		u: make([]float64, m),
		D: make([]float64, n),
		E: make([]float64, m),
		c: 1,
	}
	sp.P.CopySym(p.P)
	for j := range sp.D {
		sp.D[j] = 1
	}
	for i := range sp.E {
		sp.E[i] = 1
	}

	dTmp := make([]float64, n)
	eTmp := make([]float64, m)
	for it := 0; it < iterations; it++ {
		for j := 0; j < n; j++ {
			norm := 0.0
			for i := 0; i < n; i++ {
				norm = math.Max(norm, math.Abs(sp.P.At(i, j)))
			}
			for i := 0; i < m; i++ {
				norm = math.Max(norm, math.Abs(sp.A.At(i, j)))
			}
			dTmp[j] = 1 / math.Sqrt(limitScaling(norm))
		}
		for i := 0; i < m; i++ {
			norm := 0.0
			for j := 0; j < n; j++ {
				norm = math.Max(norm, math.Abs(sp.A.At(i, j)))
			}
			eTmp[i] = 1 / math.Sqrt(limitScaling(norm))
		}

		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				sp.P.SetSym(i, j, sp.P.At(i, j)*dTmp[i]*dTmp[j])
			}
			sp.q[i] *= dTmp[i]
			sp.D[i] *= dTmp[i]
		}
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				sp.A.Set(i, j, sp.A.At(i, j)*eTmp[i]*dTmp[j])
			}
			sp.E[i] *= eTmp[i]
		}

		// cost scaling
		meanCol := 0.0
		for j := 0; j < n; j++ {
			norm := 0.0
			for i := 0; i < n; i++ {
				norm = math.Max(norm, math.Abs(sp.P.At(i, j)))
			}
			meanCol += norm
		}
		meanCol /= float64(n)
		qNorm := 0.0
		for _, v := range sp.q {
			qNorm = math.Max(qNorm, math.Abs(v))
		}
		cTmp := 1 / limitScaling(math.Max(meanCol, qNorm))
		sp.P.ScaleSym(cTmp, sp.P)
		for j := range sp.q {
			sp.q[j] *= cTmp
		}
		sp.c *= cTmp
	}

	for i := 0; i < m; i++ {
		sp.l[i] = sp.E[i] * p.L[i]
		sp.u[i] = sp.E[i] * p.U[i]
	}
	return sp
}
