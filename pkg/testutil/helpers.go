// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/loan-calculator/pkg/amortization"
)

// StandardLoan is the 100 000 at 6% over 60 months loan used across tests.
func StandardLoan() amortization.Parameters {
	return amortization.Parameters{Principal: 100000, AnnualInterestRate: 6, TermMonths: 60}
}

// InsuredLoan is StandardLoan with a 0.4% annual insurance rate.
func InsuredLoan() amortization.Parameters {
	params := StandardLoan()
	params.AnnualInsuranceRate = 0.4
	return params
}

// MustCompute computes params and fails the test on error.
func MustCompute(tb testing.TB, params amortization.Parameters) amortization.Result {
	tb.Helper()
	result, err := amortization.Compute(params)
	if err != nil {
		tb.Fatalf("Compute(%+v) error = %v", params, err)
	}
	return result
}

// FindRow finds the schedule row for a 1-based month.
// Returns a pointer to the row if found, nil otherwise.
func FindRow(schedule []amortization.Row, month int) *amortization.Row {
	for i := range schedule {
		if schedule[i].Month == month {
			return &schedule[i]
		}
	}
	return nil
}
