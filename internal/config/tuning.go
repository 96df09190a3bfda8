package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default planner values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for the speed planner.
// Every field is optional; the Get* accessors fall back to built-in
// defaults so partial files are safe.
type TuningConfig struct {
	// Horizon and grids
	TotalTime               *float64 `json:"total_time,omitempty"`
	TotalPathLength         *float64 `json:"total_path_length,omitempty"`
	SplineOrder             *int     `json:"spline_order,omitempty"`
	NumberOfDiscreteGraphT  *int     `json:"number_of_discrete_graph_t,omitempty"`
	NumberOfEvaluatedGraphT *int     `json:"number_of_evaluated_graph_t,omitempty"`
	OutputTimeResolution    *float64 `json:"output_time_resolution,omitempty"`

	// Cost weights
	SpeedKernelWeight         *float64 `json:"speed_kernel_weight,omitempty"`
	AccelKernelWeight         *float64 `json:"accel_kernel_weight,omitempty"`
	JerkKernelWeight          *float64 `json:"jerk_kernel_weight,omitempty"`
	ReferenceLineKernelWeight *float64 `json:"reference_line_kernel_weight,omitempty"`
	FollowKernelWeight        *float64 `json:"follow_kernel_weight,omitempty"`

	// Vehicle
	MaxSpeed *float64 `json:"max_speed,omitempty"`

	// Solver
	SolverMaxIterations *int     `json:"solver_max_iterations,omitempty"`
	SolverEpsAbs        *float64 `json:"solver_eps_abs,omitempty"`
	SolverEpsRel        *float64 `json:"solver_eps_rel,omitempty"`
	SolveTimeout        *string  `json:"solve_timeout,omitempty"` // duration string like "50ms"
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,          // from cmd/
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // deeper packages
		"../../../../" + DefaultConfigPath, // even deeper
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

func positive(name string, v *float64) error {
	if v != nil && (!(*v > 0) || math.IsInf(*v, 0)) {
		return fmt.Errorf("%s must be positive and finite, got %v", name, *v)
	}
	return nil
}

func nonNegative(name string, v *float64) error {
	if v != nil && (!(*v >= 0) || math.IsInf(*v, 0)) {
		return fmt.Errorf("%s must be non-negative and finite, got %v", name, *v)
	}
	return nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	for _, check := range []struct {
		name string
		v    *float64
	}{
		{"total_time", c.TotalTime},
		{"total_path_length", c.TotalPathLength},
		{"output_time_resolution", c.OutputTimeResolution},
		{"max_speed", c.MaxSpeed},
		{"solver_eps_abs", c.SolverEpsAbs},
		{"solver_eps_rel", c.SolverEpsRel},
	} {
		if err := positive(check.name, check.v); err != nil {
			return err
		}
	}

	for _, check := range []struct {
		name string
		v    *float64
	}{
		{"speed_kernel_weight", c.SpeedKernelWeight},
		{"accel_kernel_weight", c.AccelKernelWeight},
		{"jerk_kernel_weight", c.JerkKernelWeight},
		{"reference_line_kernel_weight", c.ReferenceLineKernelWeight},
		{"follow_kernel_weight", c.FollowKernelWeight},
	} {
		if err := nonNegative(check.name, check.v); err != nil {
			return err
		}
	}

	// Third-derivative continuity needs at least a cubic per segment.
	if c.SplineOrder != nil && *c.SplineOrder < 3 {
		return fmt.Errorf("spline_order must be at least 3, got %d", *c.SplineOrder)
	}
	if c.NumberOfDiscreteGraphT != nil && *c.NumberOfDiscreteGraphT < 1 {
		return fmt.Errorf("number_of_discrete_graph_t must be positive, got %d", *c.NumberOfDiscreteGraphT)
	}
	if c.NumberOfEvaluatedGraphT != nil && *c.NumberOfEvaluatedGraphT < 1 {
		return fmt.Errorf("number_of_evaluated_graph_t must be positive, got %d", *c.NumberOfEvaluatedGraphT)
	}
	if c.SolverMaxIterations != nil && *c.SolverMaxIterations < 1 {
		return fmt.Errorf("solver_max_iterations must be positive, got %d", *c.SolverMaxIterations)
	}

	if c.SolveTimeout != nil && *c.SolveTimeout != "" {
		d, err := time.ParseDuration(*c.SolveTimeout)
		if err != nil {
			return fmt.Errorf("invalid solve_timeout '%s': %w", *c.SolveTimeout, err)
		}
		if d < 0 {
			return fmt.Errorf("solve_timeout must be non-negative, got %s", d)
		}
	}

	return nil
}

// GetTotalTime returns the total_time value or the default.
func (c *TuningConfig) GetTotalTime() float64 {
	if c.TotalTime == nil {
		return 8.0
	}
	return *c.TotalTime
}

// GetTotalPathLength returns the total_path_length value or the default.
func (c *TuningConfig) GetTotalPathLength() float64 {
	if c.TotalPathLength == nil {
		return 200.0
	}
	return *c.TotalPathLength
}

// GetSplineOrder returns the spline_order value or the default.
func (c *TuningConfig) GetSplineOrder() int {
	if c.SplineOrder == nil {
		return 5
	}
	return *c.SplineOrder
}

// GetNumberOfDiscreteGraphT returns the number_of_discrete_graph_t value or the default.
func (c *TuningConfig) GetNumberOfDiscreteGraphT() int {
	if c.NumberOfDiscreteGraphT == nil {
		return 4
	}
	return *c.NumberOfDiscreteGraphT
}

// GetNumberOfEvaluatedGraphT returns the number_of_evaluated_graph_t value or the default.
func (c *TuningConfig) GetNumberOfEvaluatedGraphT() int {
	if c.NumberOfEvaluatedGraphT == nil {
		return 40
	}
	return *c.NumberOfEvaluatedGraphT
}

// GetOutputTimeResolution returns the output_time_resolution value or the default.
func (c *TuningConfig) GetOutputTimeResolution() float64 {
	if c.OutputTimeResolution == nil {
		return 0.05
	}
	return *c.OutputTimeResolution
}

// GetSpeedKernelWeight returns the speed_kernel_weight value or the default.
func (c *TuningConfig) GetSpeedKernelWeight() float64 {
	if c.SpeedKernelWeight == nil {
		return 0
	}
	return *c.SpeedKernelWeight
}

// GetAccelKernelWeight returns the accel_kernel_weight value or the default.
func (c *TuningConfig) GetAccelKernelWeight() float64 {
	if c.AccelKernelWeight == nil {
		return 10.0
	}
	return *c.AccelKernelWeight
}

// GetJerkKernelWeight returns the jerk_kernel_weight value or the default.
func (c *TuningConfig) GetJerkKernelWeight() float64 {
	if c.JerkKernelWeight == nil {
		return 10.0
	}
	return *c.JerkKernelWeight
}

// GetReferenceLineKernelWeight returns the reference_line_kernel_weight value or the default.
func (c *TuningConfig) GetReferenceLineKernelWeight() float64 {
	if c.ReferenceLineKernelWeight == nil {
		return 1.0
	}
	return *c.ReferenceLineKernelWeight
}

// GetFollowKernelWeight returns the follow_kernel_weight value or the default.
func (c *TuningConfig) GetFollowKernelWeight() float64 {
	if c.FollowKernelWeight == nil {
		return 1.0
	}
	return *c.FollowKernelWeight
}

// GetMaxSpeed returns the max_speed value or the default.
func (c *TuningConfig) GetMaxSpeed() float64 {
	if c.MaxSpeed == nil {
		return 30.0
	}
	return *c.MaxSpeed
}

// GetSolverMaxIterations returns the solver_max_iterations value or the default.
func (c *TuningConfig) GetSolverMaxIterations() int {
	if c.SolverMaxIterations == nil {
		return 40000
	}
	return *c.SolverMaxIterations
}

// GetSolverEpsAbs returns the solver_eps_abs value or the default.
func (c *TuningConfig) GetSolverEpsAbs() float64 {
	if c.SolverEpsAbs == nil {
		return 1e-5
	}
	return *c.SolverEpsAbs
}

// GetSolverEpsRel returns the solver_eps_rel value or the default.
func (c *TuningConfig) GetSolverEpsRel() float64 {
	if c.SolverEpsRel == nil {
		return 1e-5
	}
	return *c.SolverEpsRel
}

// GetSolveTimeout parses and returns the SolveTimeout as a time.Duration.
// Zero means no deadline.
func (c *TuningConfig) GetSolveTimeout() time.Duration {
	if c.SolveTimeout == nil || *c.SolveTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(*c.SolveTimeout)
	if err != nil {
		return 0 // default on parse error
	}
	return d
}
