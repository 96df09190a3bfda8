package spline

import "github.com/banshee-data/velocity.plan/internal/qp"

// DefaultSettingsForTest returns solver settings tight enough for the
// coefficient checks in this package.
func DefaultSettingsForTest() qp.Settings {
	s := qp.DefaultSettings()
	s.EpsAbs = 1e-7
	s.EpsRel = 1e-7
	return s
}
