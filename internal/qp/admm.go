package qp

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Result is a converged solution in the caller's (unscaled) coordinates.
type Result struct {
	X []float64 // primal solution
	Y []float64 // constraint multipliers

	Iterations     int
	Objective      float64
	PrimalResidual float64
	DualResidual   float64
	Rho            float64 // final step size (scaled problem)
}

// Solve runs ADMM on p until the residual tolerances are met. ctx is checked
// every Settings.CheckInterval iterations; on cancellation its error is
// returned and no partial result is produced.
func Solve(ctx context.Context, p Problem, s Settings) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s = s.withDefaults()

	if _, m := p.Dims(); m == 0 {
		return solveUnconstrained(p)
	}

	w := newWorkspace(equilibrate(p, s.ScalingIterations), s)
	if err := w.factorize(); err != nil {
		return nil, err
	}

	for iter := 1; iter <= s.MaxIterations; iter++ {
		if err := w.step(); err != nil {
			return nil, err
		}

		if iter%s.CheckInterval == 0 || iter == s.MaxIterations {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if w.converged() {
				return w.result(p, iter), nil
			}
			if w.primalInfeasible() {
				return nil, ErrPrimalInfeasible
			}
		}

		if s.AdaptiveRhoInterval > 0 && iter%s.AdaptiveRhoInterval == 0 {
			if err := w.adaptRho(); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("%w: %d iterations, primal %.3g dual %.3g",
		ErrMaxIterations, s.MaxIterations, w.primRes, w.dualRes)
}

// solveUnconstrained minimises ½ xᵀPx + qᵀx directly, which needs P ≻ 0.
func solveUnconstrained(p Problem) (*Result, error) {
	n, _ := p.Dims()
	var chol mat.Cholesky
	if ok := chol.Factorize(p.P); !ok {
		return nil, ErrNotConvex
	}
	negQ := mat.NewVecDense(n, nil)
	negQ.ScaleVec(-1, mat.NewVecDense(n, append([]float64(nil), p.Q...)))
	x := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(x, negQ); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConvex, err)
	}
	xs := append([]float64(nil), x.RawVector().Data...)
	return &Result{X: xs, Objective: p.Objective(xs), Iterations: 1}, nil
}

type workspace struct {
	sp *scaledProblem
	s  Settings

	rho    float64
	rhoVec []float64
	chol   mat.Cholesky

	x, z, y, dy []float64
	xt, zt      *mat.VecDense // x̃, z̃
	rhs         *mat.VecDense
	tmpN        *mat.VecDense
	tmpM        *mat.VecDense
	tmpN2       *mat.VecDense

	primRes, dualRes float64
}

func newWorkspace(sp *scaledProblem, s Settings) *workspace {
	w := &workspace{
		sp:     sp,
		s:      s,
		rho:    s.Rho,
		rhoVec: make([]float64, sp.m),
		x:      make([]float64, sp.n),
		z:      make([]float64, sp.m),
		y:      make([]float64, sp.m),
		dy:     make([]float64, sp.m),
		xt:     mat.NewVecDense(sp.n, nil),
		zt:     mat.NewVecDense(sp.m, nil),
		rhs:    mat.NewVecDense(sp.n, nil),
		tmpN:   mat.NewVecDense(sp.n, nil),
		tmpM:   mat.NewVecDense(sp.m, nil),
		tmpN2:  mat.NewVecDense(sp.n, nil),
	}
	w.setRhoVec()
	return w
}

// setRhoVec assigns per-row step sizes: stiff for equalities, minimal for
// free rows.
func (w *workspace) setRhoVec() {
	for i := 0; i < w.sp.m; i++ {
		l, u := w.sp.l[i], w.sp.u[i]
		switch {
		case math.IsInf(l, -1) && math.IsInf(u, 1):
			w.rhoVec[i] = rhoMin
		case u-l < rhoTolerance:
			w.rhoVec[i] = rhoEqScale * w.rho
		default:
			w.rhoVec[i] = w.rho
		}
	}
}

// factorize builds P + σI + Aᵀdiag(ρ)A and caches its Cholesky factor.
func (w *workspace) factorize() error {
	n, m := w.sp.n, w.sp.m
	a := w.sp.A.RawMatrix()
	kkt := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := w.sp.P.At(i, j)
			for k := 0; k < m; k++ {
				row := a.Data[k*a.Stride:]
				v += row[i] * w.rhoVec[k] * row[j]
			}
			if i == j {
				v += w.s.Sigma
			}
			kkt.SetSym(i, j, v)
		}
	}
	if ok := w.chol.Factorize(kkt); !ok {
		return ErrNotConvex
	}
	return nil
}

// step performs one ADMM iteration in scaled coordinates.
func (w *workspace) step() error {
	sp, alpha := w.sp, w.s.Alpha

	tm := w.tmpM.RawVector().Data
	for i := 0; i < sp.m; i++ {
		tm[i] = w.rhoVec[i]*w.z[i] - w.y[i]
	}
	w.tmpN.MulVec(sp.A.T(), w.tmpM)
	rhs, tn := w.rhs.RawVector().Data, w.tmpN.RawVector().Data
	for j := 0; j < sp.n; j++ {
		rhs[j] = w.s.Sigma*w.x[j] - sp.q[j] + tn[j]
	}
	if err := w.chol.SolveVecTo(w.xt, w.rhs); err != nil {
		return fmt.Errorf("%w: %v", ErrNotConvex, err)
	}
	w.zt.MulVec(sp.A, w.xt)

	xt, zt := w.xt.RawVector().Data, w.zt.RawVector().Data
	for j := 0; j < sp.n; j++ {
		w.x[j] = alpha*xt[j] + (1-alpha)*w.x[j]
	}
	for i := 0; i < sp.m; i++ {
		zRelax := alpha*zt[i] + (1-alpha)*w.z[i]
		zNew := math.Min(math.Max(zRelax+w.y[i]/w.rhoVec[i], sp.l[i]), sp.u[i])
		w.dy[i] = w.rhoVec[i] * (zRelax - zNew)
		w.y[i] += w.dy[i]
		w.z[i] = zNew
	}
	return nil
}

// converged evaluates the unscaled primal and dual residuals against the
// absolute/relative tolerances.
func (w *workspace) converged() bool {
	sp := w.sp
	xv := mat.NewVecDense(sp.n, w.x)
	yv := mat.NewVecDense(sp.m, w.y)

	// primal: E⁻¹(Âx - z)
	w.tmpM.MulVec(sp.A, xv)
	ax := w.tmpM.RawVector().Data
	prim, axNorm, zNorm := 0.0, 0.0, 0.0
	for i := 0; i < sp.m; i++ {
		prim = math.Max(prim, math.Abs(ax[i]-w.z[i])/sp.E[i])
		axNorm = math.Max(axNorm, math.Abs(ax[i])/sp.E[i])
		zNorm = math.Max(zNorm, math.Abs(w.z[i])/sp.E[i])
	}

	// dual: c⁻¹D⁻¹(P̂x + q̂ + Âᵀy)
	w.tmpN.MulVec(sp.P, xv)
	w.tmpN2.MulVec(sp.A.T(), yv)
	px, aty := w.tmpN.RawVector().Data, w.tmpN2.RawVector().Data
	dual, pxNorm, atyNorm, qNorm := 0.0, 0.0, 0.0, 0.0
	for j := 0; j < sp.n; j++ {
		inv := 1 / (sp.c * sp.D[j])
		dual = math.Max(dual, math.Abs(px[j]+sp.q[j]+aty[j])*inv)
		pxNorm = math.Max(pxNorm, math.Abs(px[j])*inv)
		atyNorm = math.Max(atyNorm, math.Abs(aty[j])*inv)
		qNorm = math.Max(qNorm, math.Abs(sp.q[j])*inv)
	}

	w.primRes, w.dualRes = prim, dual
	epsPrim := w.s.EpsAbs + w.s.EpsRel*math.Max(axNorm, zNorm)
	epsDual := w.s.EpsAbs + w.s.EpsRel*math.Max(pxNorm, math.Max(atyNorm, qNorm))
	return prim <= epsPrim && dual <= epsDual
}

// primalInfeasible tests the last multiplier step δy for a certificate
// Aᵀδy ≈ 0, uᵀδy₊ + lᵀδy₋ < 0.
func (w *workspace) primalInfeasible() bool {
	sp := w.sp
	dy := w.tmpM.RawVector().Data
	for i := 0; i < sp.m; i++ {
		d := w.dy[i]
		// project onto the polar of the recession cone of [l, u]
		if math.IsInf(sp.u[i], 1) {
			d = math.Min(d, 0)
		}
		if math.IsInf(sp.l[i], -1) {
			d = math.Max(d, 0)
		}
		dy[i] = d
	}

	normDy := 0.0
	for i := 0; i < sp.m; i++ {
		normDy = math.Max(normDy, math.Abs(sp.E[i]*dy[i]))
	}
	if normDy < 1e-12 {
		return false
	}

	support := 0.0
	for i := 0; i < sp.m; i++ {
		if dy[i] > 0 {
			support += sp.u[i] * dy[i]
		} else if dy[i] < 0 {
			support += sp.l[i] * dy[i]
		}
	}
	eps := w.s.EpsPrimalInf * normDy
	if !(support < -eps) {
		return false
	}

	w.tmpN.MulVec(sp.A.T(), w.tmpM)
	atdy := w.tmpN.RawVector().Data
	for j := 0; j < sp.n; j++ {
		if math.Abs(atdy[j]/sp.D[j]) > eps {
			return false
		}
	}
	return true
}

// adaptRho rebalances the step size from the ratio of normalised residuals
// and refactorises when it moved far enough.
func (w *workspace) adaptRho() error {
	sp := w.sp
	xv := mat.NewVecDense(sp.n, w.x)
	yv := mat.NewVecDense(sp.m, w.y)

	w.tmpM.MulVec(sp.A, xv)
	ax := w.tmpM.RawVector().Data
	primNum := 0.0
	for i := 0; i < sp.m; i++ {
		primNum = math.Max(primNum, math.Abs(ax[i]-w.z[i]))
	}
	primDen := math.Max(floats.Norm(ax, math.Inf(1)), floats.Norm(w.z, math.Inf(1)))

	w.tmpN.MulVec(sp.P, xv)
	w.tmpN2.MulVec(sp.A.T(), yv)
	px, aty := w.tmpN.RawVector().Data, w.tmpN2.RawVector().Data
	dualNum := 0.0
	for j := 0; j < sp.n; j++ {
		dualNum = math.Max(dualNum, math.Abs(px[j]+sp.q[j]+aty[j]))
	}
	dualDen := math.Max(floats.Norm(px, math.Inf(1)),
		math.Max(floats.Norm(aty, math.Inf(1)), floats.Norm(sp.q, math.Inf(1))))

	prim := primNum / (primDen + divisionGuard)
	dual := dualNum / (dualDen + divisionGuard)
	newRho := w.rho * math.Sqrt(prim/(dual+divisionGuard))
	newRho = math.Min(math.Max(newRho, rhoMin), rhoMax)

	if newRho > w.rho*rhoAdaptTrigger || newRho < w.rho/rhoAdaptTrigger {
		w.rho = newRho
		w.setRhoVec()
		return w.factorize()
	}
	return nil
}

// result unscales the iterates back to the caller's coordinates.
func (w *workspace) result(p Problem, iter int) *Result {
	sp := w.sp
	x := make([]float64, sp.n)
	for j := range x {
		x[j] = sp.D[j] * w.x[j]
	}
	y := make([]float64, sp.m)
	for i := range y {
		y[i] = sp.E[i] * w.y[i] / sp.c
	}
	return &Result{
		X:              x,
		Y:              y,
		Iterations:     iter,
		Objective:      p.Objective(x),
		PrimalResidual: w.primRes,
		DualResidual:   w.dualRes,
		Rho:            w.rho,
	}
}
