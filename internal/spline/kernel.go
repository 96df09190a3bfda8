package spline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Kernel accumulates a quadratic cost xᵀKx + gᵀx over spline coefficients.
type Kernel struct {
	spline *Spline1d
	k      *mat.SymDense
	g      []float64
}

// NewKernel returns a zero cost for s.
func NewKernel(s *Spline1d) *Kernel {
	n := s.NumParams()
	return &Kernel{
		spline: s,
		k:      mat.NewSymDense(n, nil),
		g:      make([]float64, n),
	}
}

// Matrix returns copies of K and g.
func (k *Kernel) Matrix() (*mat.SymDense, []float64) {
	n := k.spline.NumParams()
	out := mat.NewSymDense(n, nil)
	out.CopySym(k.k)
	return out, append([]float64(nil), k.g...)
}

// Cost evaluates xᵀKx + gᵀx.
func (k *Kernel) Cost(x []float64) float64 {
	xv := mat.NewVecDense(len(x), x)
	return mat.Inner(xv, k.k, xv) + mat.Dot(xv, mat.NewVecDense(len(k.g), k.g))
}

// AddDerivativeKernelMatrix adds weight·∫ s'(t)² dt.
func (k *Kernel) AddDerivativeKernelMatrix(weight float64) error {
	return k.addDerivativeKernel(1, weight)
}

// AddSecondOrderDerivativeMatrix adds weight·∫ s''(t)² dt.
func (k *Kernel) AddSecondOrderDerivativeMatrix(weight float64) error {
	return k.addDerivativeKernel(2, weight)
}

// AddThirdOrderDerivativeMatrix adds weight·∫ s'''(t)² dt.
func (k *Kernel) AddThirdOrderDerivativeMatrix(weight float64) error {
	return k.addDerivativeKernel(3, weight)
}

// addDerivativeKernel adds the exact integral of the squared d-th
// derivative. On a segment of length h with s = Σ c_j τ^j,
//
//	∫ (s^(d))² dt = h^(1-2d) Σ_ij c_i c_j f(i,d) f(j,d) / (i+j-2d+1)
//
// where f is the falling factorial.
func (k *Kernel) addDerivativeKernel(d int, weight float64) error {
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("spline: kernel weight must be finite and non-negative, got %g", weight)
	}
	s := k.spline
	width := s.order + 1
	for seg := 0; seg < s.NumSegments(); seg++ {
		h := s.knots[seg+1] - s.knots[seg]
		scale := weight * math.Pow(h, float64(1-2*d))
		off := seg * width
		for i := d; i <= s.order; i++ {
			for j := i; j <= s.order; j++ {
				v := fallingFactorial(i, d) * fallingFactorial(j, d) / float64(i+j-2*d+1)
				k.k.SetSym(off+i, off+j, k.k.At(off+i, off+j)+scale*v)
			}
		}
	}
	return nil
}

// AddReferenceLineKernelMatrix adds weight·Σ (s(ts[i]) - ref[i])².
func (k *Kernel) AddReferenceLineKernelMatrix(ts, ref []float64, weight float64) error {
	if len(ts) != len(ref) {
		return fmt.Errorf("spline: reference kernel has %d times and %d references", len(ts), len(ref))
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("spline: kernel weight must be finite and non-negative, got %g", weight)
	}
	for i, t := range ts {
		if math.IsNaN(ref[i]) || math.IsInf(ref[i], 0) || math.IsNaN(t) {
			return fmt.Errorf("spline: non-finite reference %g at t=%g", ref[i], t)
		}
	}
	s := k.spline
	for i, t := range ts {
		seg, tau := s.locate(t)
		row := s.segmentRow(seg, tau, 0)
		off := seg * (s.order + 1)
		for a := range row {
			for b := a; b < len(row); b++ {
				k.k.SetSym(off+a, off+b, k.k.At(off+a, off+b)+weight*row[a]*row[b])
			}
			k.g[off+a] -= 2 * weight * ref[i] * row[a]
		}
	}
	return nil
}

// AddRegularization adds eps·‖x‖², keeping the cost strictly convex.
func (k *Kernel) AddRegularization(eps float64) error {
	if eps < 0 {
		return fmt.Errorf("spline: regularisation must be non-negative, got %g", eps)
	}
	for i := 0; i < k.spline.NumParams(); i++ {
		k.k.SetSym(i, i, k.k.At(i, i)+eps)
	}
	return nil
}
