package format

import (
	"math"
	"testing"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"Whole number", 10000, "10000.00"},
		{"Two decimals", 1933.28, "1933.28"},
		{"Rounds up", 1933.2801529428273, "1933.28"},
		{"Half rounds away from zero", 1.005, "1.01"},
		{"Repeating insurance", 33.333333333333336, "33.33"},
		{"Zero", 0, "0.00"},
		{"Negative", -12.345, "-12.35"},
		{"Positive infinity", math.Inf(1), "+Inf"},
		{"Negative infinity", math.Inf(-1), "-Inf"},
		{"NaN", math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Number(tt.input); got != tt.expected {
				t.Errorf("Number(%v) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		code     string
		expected string
	}{
		{"Small amount", 12.5, "MAD", "12,50 MAD"},
		{"Thousands", 1933.28, "MAD", "1 933,28 MAD"},
		{"Hundreds of thousands", 115996.81, "MAD", "115 996,81 MAD"},
		{"Millions", 1234567.891, "MAD", "1 234 567,89 MAD"},
		{"Exactly three digits", 999.999, "MAD", "1 000,00 MAD"},
		{"Default currency", 2000.0000000000002, "", "2 000,00 MAD"},
		{"Other currency", 1500, "EUR", "1 500,00 EUR"},
		{"Negative amount", -1234.5, "MAD", "-1 234,50 MAD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.input, tt.code); got != tt.expected {
				t.Errorf("Currency(%v, %q) = %q, expected %q", tt.input, tt.code, got, tt.expected)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{6, "6.00%"},
		{0.4, "0.40%"},
		{19.999, "20.00%"},
	}

	for _, tt := range tests {
		if got := Percent(tt.input); got != tt.expected {
			t.Errorf("Percent(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestAmountNonFinite(t *testing.T) {
	if got := Amount(math.Inf(1)); got != "+Inf" {
		t.Errorf("Amount(+Inf) = %q, expected %q", got, "+Inf")
	}
	if got := Currency(math.NaN(), "MAD"); got != "NaN MAD" {
		t.Errorf("Currency(NaN) = %q, expected %q", got, "NaN MAD")
	}
}
