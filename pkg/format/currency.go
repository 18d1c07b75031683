// Package format renders amounts the way the calculator displays them:
// two decimals, space-grouped thousands, comma decimal separator and a
// currency suffix.
package format

import (
	"strconv"
	"strings"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Number returns value with exactly two decimals and a dot separator
// (e.g., "1234.57"). Halves round away from zero on the shortest decimal
// representation, so 1.005 becomes "1.01". NaN and infinities are
// rendered as "NaN", "+Inf" and "-Inf".
func Number(value float64) string {
	if !mathutil.IsFinite(value) {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	return decimal.NewFromFloat(value).StringFixed(constants.DisplayDecimalPlaces)
}

// Currency returns a localized amount with a currency suffix
// (e.g., "1 234 567,89 MAD"). An empty code falls back to the default currency.
func Currency(value float64, code string) string {
	if code == "" {
		code = constants.DefaultCurrency
	}
	return Amount(value) + " " + code
}

// Amount returns a localized amount without a currency suffix (e.g., "-1 234,50").
func Amount(value float64) string {
	fixed := Number(value)
	if !mathutil.IsFinite(value) {
		return fixed
	}
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	parts := strings.SplitN(fixed, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(' ')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return sign + intPart + "," + decPart
}

// Percent returns a percentage with two decimals (e.g., "6.00%").
func Percent(value float64) string {
	return Number(value) + "%"
}
