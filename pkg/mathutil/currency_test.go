package mathutil

import (
	"math"
	"testing"
)

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Zero", 0, true},
		{"Regular value", 1932.93, true},
		{"Largest float", math.MaxFloat64, true},
		{"Positive infinity", math.Inf(1), false},
		{"Negative infinity", math.Inf(-1), false},
		{"NaN", math.NaN(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFinite(tt.input); got != tt.expected {
				t.Errorf("IsFinite(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClampNonNegative(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Positive passes through", 12.5, 12.5},
		{"Zero stays zero", 0, 0},
		{"Float drift below zero", -1e-10, 0},
		{"Large negative", -500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampNonNegative(tt.input); got != tt.expected {
				t.Errorf("ClampNonNegative(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		val1      float64
		val2      float64
		tolerance float64
		expected  bool
	}{
		{"Exact match", 10.0, 10.0, 0.01, true},
		{"Within tolerance", 10.0, 10.005, 0.01, true},
		{"Outside tolerance", 10.0, 10.02, 0.01, false},
		{"Negative values within tolerance", -5.0, -5.005, 0.01, true},
		{"Zero tolerance exact", 5.0, 5.0, 0.0, true},
		{"Zero tolerance different", 5.0, 5.001, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithinTolerance(tt.val1, tt.val2, tt.tolerance)
			if result != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v",
					tt.val1, tt.val2, tt.tolerance, result, tt.expected)
			}
		})
	}
}

func TestPercentToMonthlyRate(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Six percent", 6.0, 0.005},
		{"Zero percent", 0.0, 0.0},
		{"Insurance rate", 0.4, 0.004 / 12},
		{"Twelve percent", 12.0, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PercentToMonthlyRate(tt.input)
			if math.Abs(result-tt.expected) > 1e-15 {
				t.Errorf("PercentToMonthlyRate(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}
