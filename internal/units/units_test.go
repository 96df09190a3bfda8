package units

import (
	"math"
	"testing"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid mps", MPS, true},
		{"valid mph", MPH, true},
		{"valid kmph", KMPH, true},
		{"valid kph", KPH, true},
		{"invalid unit", "invalid", false},
		{"empty unit", "", false},
		{"uppercase MPS", "MPS", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.unit); got != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, got, tt.expected)
			}
			if err := Validate(tt.unit); (err == nil) != tt.expected {
				t.Errorf("Validate(%s) error = %v, want valid=%v", tt.unit, err, tt.expected)
			}
		})
	}
}

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		name     string
		speedMPS float64
		unit     string
		expected float64
	}{
		{"1 m/s to mps", 1.0, MPS, 1.0},
		{"1 m/s to mph", 1.0, MPH, 2.2369362920544},
		{"5 m/s to mph", 5.0, MPH, 11.184681460272},
		{"10 m/s to kmph", 10.0, KMPH, 36.0},
		{"1 m/s to kph", 1.0, KPH, 3.6},
		{"1 m/s to unknown", 1.0, "unknown", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertSpeed(tt.speedMPS, tt.unit)
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("ConvertSpeed(%f, %s) = %f, want %f", tt.speedMPS, tt.unit, result, tt.expected)
			}
		})
	}
}

func TestConvertDistance(t *testing.T) {
	if got := ConvertDistance(100, MPS); got != 100 {
		t.Errorf("ConvertDistance(100, mps) = %f, want 100", got)
	}
	if got := ConvertDistance(1, MPH); math.Abs(got-3.28084) > 1e-5 {
		t.Errorf("ConvertDistance(1, mph) = %f, want 3.28084", got)
	}
}

func TestLabels(t *testing.T) {
	if SpeedLabel(KPH) != "km/h" || SpeedLabel(MPH) != "mph" || SpeedLabel("") != "m/s" {
		t.Error("unexpected speed labels")
	}
	if DistanceLabel(MPH) != "ft" || DistanceLabel(MPS) != "m" {
		t.Error("unexpected distance labels")
	}
}
