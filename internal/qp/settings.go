package qp

// Settings tune the ADMM iteration.
type Settings struct {
	Rho   float64 // initial step size
	Sigma float64 // primal regularisation
	Alpha float64 // over-relaxation in (0, 2)

	EpsAbs       float64
	EpsRel       float64
	EpsPrimalInf float64

	MaxIterations int
	// CheckInterval is how often (in iterations) termination, infeasibility
	// and cancellation are tested.
	CheckInterval int
	// AdaptiveRhoInterval is how often rho is re-estimated. Zero selects
	// the default, a negative value disables adaptation.
	AdaptiveRhoInterval int
	// ScalingIterations counts Ruiz passes. Zero selects the default, a
	// negative value disables equilibration.
	ScalingIterations int
}

// Internal numerical constants, not user-tunable.
const (
	rhoMin          = 1e-6
	rhoMax          = 1e6
	rhoEqScale      = 1e3 // equality rows get a stiffer step
	rhoTolerance    = 1e-4
	rhoAdaptTrigger = 5.0
	minScaling      = 1e-4
	maxScaling      = 1e4
	divisionGuard   = 1e-30
)

// DefaultSettings returns the settings used by the speed optimizer.
func DefaultSettings() Settings {
	return Settings{
		Rho:                 0.1,
		Sigma:               1e-6,
		Alpha:               1.6,
		EpsAbs:              1e-5,
		EpsRel:              1e-5,
		EpsPrimalInf:        1e-4,
		MaxIterations:       40000,
		CheckInterval:       10,
		AdaptiveRhoInterval: 50,
		ScalingIterations:   10,
	}
}

// withDefaults fills zero fields from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Rho <= 0 {
		s.Rho = d.Rho
	}
	if s.Sigma <= 0 {
		s.Sigma = d.Sigma
	}
	if s.Alpha <= 0 || s.Alpha >= 2 {
		s.Alpha = d.Alpha
	}
	if s.EpsAbs <= 0 {
		s.EpsAbs = d.EpsAbs
	}
	if s.EpsRel < 0 {
		s.EpsRel = d.EpsRel
	}
	if s.EpsPrimalInf <= 0 {
		s.EpsPrimalInf = d.EpsPrimalInf
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = d.MaxIterations
	}
	if s.CheckInterval <= 0 {
		s.CheckInterval = d.CheckInterval
	}
	switch {
	case s.AdaptiveRhoInterval == 0:
		s.AdaptiveRhoInterval = d.AdaptiveRhoInterval
	case s.AdaptiveRhoInterval < 0:
		s.AdaptiveRhoInterval = 0
	}
	switch {
	case s.ScalingIterations == 0:
		s.ScalingIterations = d.ScalingIterations
	case s.ScalingIterations < 0:
		s.ScalingIterations = 0
	}
	return s
}
