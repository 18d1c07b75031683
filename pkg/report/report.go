// Package report derives the views a presentation layer renders from a
// calculation: headline figures, a cost distribution and a balance trend.
package report

import (
	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/format"
)

// Labels used for the cost distribution.
const (
	LabelPrincipal = "Capital"
	LabelInterest  = "Intérêt Total"
	LabelInsurance = "Assurance Totale"
)

// Summary holds the headline figures of a calculation.
type Summary struct {
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalInsurance float64 `json:"totalInsurance"`
	TotalCost      float64 `json:"totalCost"`
	TermMonths     int     `json:"termMonths"`
}

// Slice is one labeled share of the total cost.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TrendPoint is one month of the repayment trend.
type TrendPoint struct {
	Month              int     `json:"month"`
	RemainingBalance   float64 `json:"remainingBalance"`
	Interest           float64 `json:"interest"`
	CumulativeInterest float64 `json:"cumulativeInterest"`
}

// FormattedSummary is Summary with every amount rendered for display.
type FormattedSummary struct {
	MonthlyPayment string `json:"monthlyPayment"`
	TotalInterest  string `json:"totalInterest"`
	TotalInsurance string `json:"totalInsurance"`
	TotalCost      string `json:"totalCost"`
}

// NewSummary extracts the headline figures.
func NewSummary(result amortization.Result) Summary {
	return Summary{
		MonthlyPayment: result.MonthlyPayment,
		TotalInterest:  result.TotalInterest,
		TotalInsurance: result.TotalInsurance,
		TotalCost:      result.TotalCost,
		TermMonths:     len(result.Schedule),
	}
}

// Format renders the summary amounts with the given currency code.
func (s Summary) Format(currency string) FormattedSummary {
	return FormattedSummary{
		MonthlyPayment: format.Currency(s.MonthlyPayment, currency),
		TotalInterest:  format.Currency(s.TotalInterest, currency),
		TotalInsurance: format.Currency(s.TotalInsurance, currency),
		TotalCost:      format.Currency(s.TotalCost, currency),
	}
}

// Breakdown splits the total cost into principal, interest and insurance.
// Insurance is left out when the loan carries none.
func Breakdown(params amortization.Parameters, result amortization.Result) []Slice {
	slices := []Slice{
		{Label: LabelPrincipal, Value: params.Principal},
		{Label: LabelInterest, Value: result.TotalInterest},
	}
	if result.TotalInsurance > 0 {
		slices = append(slices, Slice{Label: LabelInsurance, Value: result.TotalInsurance})
	}
	return slices
}

// Trend returns the balance and interest progression month by month.
func Trend(result amortization.Result) []TrendPoint {
	points := make([]TrendPoint, 0, len(result.Schedule))
	cumulative := 0.0
	for _, row := range result.Schedule {
		cumulative += row.Interest
		points = append(points, TrendPoint{
			Month:              row.Month,
			RemainingBalance:   row.RemainingBalance,
			Interest:           row.Interest,
			CumulativeInterest: cumulative,
		})
	}
	return points
}
