package stspeed

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/velocity.plan/internal/monitoring"
	"github.com/banshee-data/velocity.plan/internal/speedlimit"
	"github.com/banshee-data/velocity.plan/internal/stboundary"
	"github.com/banshee-data/velocity.plan/internal/timeutil"
)

// Input is everything one planning cycle consumes besides the config.
type Input struct {
	InitPoint      InitPoint
	SpeedLimit     *speedlimit.SpeedLimit
	Boundaries     []*stboundary.Boundary
	PathDataLength float64 // length of the path the profile runs along (m)
}

// CycleStats reports where a Search spent its time.
type CycleStats struct {
	Constraint time.Duration
	Kernel     time.Duration
	Solve      time.Duration
	Total      time.Duration
	Iterations int // zero when the generator does not report it
}

// Option configures a Planner.
type Option func(*Planner)

// WithGeneratorFactory replaces the spline optimiser.
func WithGeneratorFactory(f GeneratorFactory) Option {
	return func(p *Planner) { p.newGenerator = f }
}

// WithClock sets the clock used for CycleStats.
func WithClock(c timeutil.Clock) Option {
	return func(p *Planner) { p.clock = c }
}

// Planner runs planning cycles against a fixed Config. It is safe for
// concurrent use.
type Planner struct {
	cfg          Config
	newGenerator GeneratorFactory
	clock        timeutil.Clock
}

// NewPlanner returns a Planner. Without options it solves with the ADMM
// solver configured by cfg.Solver and times phases with the wall clock.
func NewPlanner(cfg Config, opts ...Option) *Planner {
	p := &Planner{
		cfg:          cfg,
		newGenerator: NewQPGeneratorFactory(cfg.Solver),
		clock:        timeutil.RealClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the planner configuration.
func (p *Planner) Config() Config { return p.cfg }

// Search plans one cycle and returns the sampled profile.
func (p *Planner) Search(ctx context.Context, in Input) (*SpeedData, error) {
	data, _, err := p.SearchWithStats(ctx, in)
	return data, err
}

// cycle is the per-call state of one Search.
type cycle struct {
	cfg        Config
	tKnots     []float64
	tEvaluated []float64
	generator  SplineGenerator
}

// SearchWithStats is Search with phase timings. On failure the stats cover
// the phases that ran and the SpeedData is nil.
func (p *Planner) SearchWithStats(ctx context.Context, in Input) (data *SpeedData, stats CycleStats, err error) {
	start := p.clock.Now()
	defer func() { stats.Total = p.clock.Since(start) }()

	c, err := p.newCycle(in)
	if err != nil {
		monitoring.Logf("stspeed: init failed: %v", err)
		return nil, stats, err
	}

	phase := p.clock.Now()
	if err := c.applyConstraint(in.InitPoint, in.SpeedLimit, in.Boundaries); err != nil {
		monitoring.Logf("stspeed: apply constraint failed: %v", err)
		return nil, stats, err
	}
	stats.Constraint = p.clock.Since(phase)

	phase = p.clock.Now()
	if err := c.applyKernel(in.Boundaries, in.SpeedLimit); err != nil {
		monitoring.Logf("stspeed: apply kernel failed: %v", err)
		return nil, stats, err
	}
	stats.Kernel = p.clock.Since(phase)

	phase = p.clock.Now()
	err = c.solve(ctx)
	stats.Solve = p.clock.Since(phase)
	if ic, ok := c.generator.(iterationCounter); ok {
		stats.Iterations = ic.Iterations()
	}
	if err != nil {
		monitoring.Logf("stspeed: solve failed: %v", err)
		return nil, stats, err
	}

	return c.sample(), stats, nil
}

// newCycle validates the input, clamps the station ceiling to the path and
// builds the grids and a fresh generator.
func (p *Planner) newCycle(in Input) (*cycle, error) {
	cfg := p.cfg
	if err := cfg.Validate(); err != nil {
		return nil, inputError("init", "invalid config", err)
	}
	if math.IsNaN(in.PathDataLength) || in.PathDataLength < 0 {
		return nil, inputError("init", fmt.Sprintf("invalid path data length %v", in.PathDataLength), nil)
	}
	if math.IsNaN(in.InitPoint.V) || math.IsNaN(in.InitPoint.A) {
		return nil, inputError("init", "init point has NaN state", nil)
	}
	for i, b := range in.Boundaries {
		if b == nil {
			return nil, inputError("init", fmt.Sprintf("boundary %d is nil", i), nil)
		}
	}
	if in.PathDataLength < cfg.TotalPathLength {
		cfg.TotalPathLength = in.PathDataLength
	}

	c := &cycle{
		cfg:        cfg,
		tKnots:     uniformGrid(cfg.TotalTime, cfg.NumberOfDiscreteGraphT),
		tEvaluated: uniformGrid(cfg.TotalTime, cfg.NumberOfEvaluatedGraphT),
	}
	g, err := p.newGenerator(c.tKnots, cfg.SplineOrder)
	if err != nil {
		return nil, inputError("init", "create spline generator failed", err)
	}
	c.generator = g
	return c, nil
}

func (c *cycle) solve(ctx context.Context) error {
	if c.cfg.SolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.SolveTimeout)
		defer cancel()
	}
	if err := c.generator.Solve(ctx); err != nil {
		return solveError("solve qp problem failed", err)
	}
	return nil
}

// sample evaluates the solved spline on the output grid.
func (c *cycle) sample() *SpeedData {
	s := c.generator.Spline()
	times := sampleTimes(c.cfg.TotalTime, c.cfg.OutputTimeResolution)
	data := &SpeedData{points: make([]SpeedPoint, 0, len(times))}
	for _, t := range times {
		data.AppendSpeedPoint(s.Evaluate(t), t, s.Derivative(t), s.SecondOrderDerivative(t), s.ThirdOrderDerivative(t))
	}
	return data
}
