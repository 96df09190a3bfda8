package stspeed

import (
	"context"
	"errors"

	"github.com/banshee-data/velocity.plan/internal/qp"
)

var errFake = errors.New("fake collaborator failure")

type fakeCall struct {
	Name string
	Args []float64
}

type fakeWindow struct {
	Ts, Lower, Upper []float64
}

type fakeReference struct {
	Ts, Ref []float64
	Weight  float64
}

// fakeGenerator records every registration in order and can fail the
// call at a chosen index. Its spline is s(t) = 2t.
type fakeGenerator struct {
	failAt     int // -1 never fails
	iterations int

	knots []float64
	order int

	calls      []fakeCall
	distance   fakeWindow
	speed      fakeWindow
	references []fakeReference
	solveCtx   context.Context
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{failAt: -1, iterations: 42}
}

func (f *fakeGenerator) factory() GeneratorFactory {
	return func(knots []float64, order int) (SplineGenerator, error) {
		f.knots = append([]float64(nil), knots...)
		f.order = order
		return f, nil
	}
}

func (f *fakeGenerator) record(name string, args ...float64) error {
	f.calls = append(f.calls, fakeCall{Name: name, Args: args})
	if len(f.calls)-1 == f.failAt {
		return errFake
	}
	return nil
}

func (f *fakeGenerator) names() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Name
	}
	return out
}

func (f *fakeGenerator) Constraint() SplineConstraint { return f }
func (f *fakeGenerator) Kernel() SplineKernel         { return f }
func (f *fakeGenerator) Spline() Spline               { return fakeSpline{} }
func (f *fakeGenerator) Iterations() int              { return f.iterations }

func (f *fakeGenerator) Solve(ctx context.Context) error {
	f.solveCtx = ctx
	return f.record("Solve")
}

func (f *fakeGenerator) AddPointConstraint(t, s float64) error {
	return f.record("AddPointConstraint", t, s)
}

func (f *fakeGenerator) AddPointDerivativeConstraint(t, v float64) error {
	return f.record("AddPointDerivativeConstraint", t, v)
}

func (f *fakeGenerator) AddPointSecondDerivativeConstraint(t, a float64) error {
	return f.record("AddPointSecondDerivativeConstraint", t, a)
}

func (f *fakeGenerator) AddMonotoneInequalityConstraintAtKnots() error {
	return f.record("AddMonotoneInequalityConstraintAtKnots")
}

func (f *fakeGenerator) AddThirdDerivativeSmoothConstraint() error {
	return f.record("AddThirdDerivativeSmoothConstraint")
}

func (f *fakeGenerator) AddBoundary(ts, lower, upper []float64) error {
	f.distance = fakeWindow{Ts: ts, Lower: lower, Upper: upper}
	return f.record("AddBoundary")
}

func (f *fakeGenerator) AddDerivativeBoundary(ts, lower, upper []float64) error {
	f.speed = fakeWindow{Ts: ts, Lower: lower, Upper: upper}
	return f.record("AddDerivativeBoundary")
}

func (f *fakeGenerator) AddDerivativeKernelMatrix(weight float64) error {
	return f.record("AddDerivativeKernelMatrix", weight)
}

func (f *fakeGenerator) AddSecondOrderDerivativeMatrix(weight float64) error {
	return f.record("AddSecondOrderDerivativeMatrix", weight)
}

func (f *fakeGenerator) AddThirdOrderDerivativeMatrix(weight float64) error {
	return f.record("AddThirdOrderDerivativeMatrix", weight)
}

func (f *fakeGenerator) AddReferenceLineKernelMatrix(ts, ref []float64, weight float64) error {
	f.references = append(f.references, fakeReference{Ts: ts, Ref: ref, Weight: weight})
	return f.record("AddReferenceLineKernelMatrix", weight)
}

type fakeSpline struct{}

func (fakeSpline) Evaluate(t float64) float64            { return 2 * t }
func (fakeSpline) Derivative(float64) float64            { return 2 }
func (fakeSpline) SecondOrderDerivative(float64) float64 { return 0 }
func (fakeSpline) ThirdOrderDerivative(float64) float64  { return 0 }

// testConfig mirrors the defaults file without reading it.
func testConfig() Config {
	return Config{
		TotalTime:                 8,
		TotalPathLength:           200,
		SplineOrder:               5,
		NumberOfDiscreteGraphT:    4,
		NumberOfEvaluatedGraphT:   40,
		OutputTimeResolution:      0.05,
		AccelKernelWeight:         10,
		JerkKernelWeight:          10,
		ReferenceLineKernelWeight: 1,
		FollowKernelWeight:        1,
		MaxSpeed:                  30,
		Solver:                    qp.DefaultSettings(),
	}
}
