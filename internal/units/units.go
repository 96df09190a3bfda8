// Package units provides shared constants and conversions for reporting
// planned speed profiles. The planner itself works in SI units throughout.
package units

import "fmt"

// Speed unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

const (
	mpsToMPH  = 2.2369362920544
	mpsToKMPH = 3.6
	metreToFt = 3.280839895013123
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mps, mph, kmph, kph"
}

// Validate returns an error naming the accepted units when unit is unknown.
func Validate(unit string) error {
	if !IsValid(unit) {
		return fmt.Errorf("invalid units %q: must be one of %s", unit, GetValidUnitsString())
	}
	return nil
}

// ConvertSpeed converts a speed from metres per second to the target units.
// Unknown units fall back to m/s.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * mpsToMPH
	case KMPH, KPH:
		return speedMPS * mpsToKMPH
	default:
		return speedMPS
	}
}

// ConvertDistance converts metres into the distance unit paired with the
// speed unit: feet for mph, metres otherwise.
func ConvertDistance(metres float64, speedUnits string) float64 {
	if speedUnits == MPH {
		return metres * metreToFt
	}
	return metres
}

// SpeedLabel returns the axis label for a speed unit.
func SpeedLabel(unit string) string {
	switch unit {
	case MPH:
		return "mph"
	case KMPH, KPH:
		return "km/h"
	default:
		return "m/s"
	}
}

// DistanceLabel returns the axis label for the distance unit paired with unit.
func DistanceLabel(unit string) string {
	if unit == MPH {
		return "ft"
	}
	return "m"
}
