package testutil

import (
	"testing"

	"github.com/iwvelando/loan-calculator/pkg/amortization"
)

func TestFindRow(t *testing.T) {
	schedule := []amortization.Row{
		{Month: 1, Principal: 10, RemainingBalance: 20},
		{Month: 2, Principal: 10, RemainingBalance: 10},
		{Month: 3, Principal: 10, RemainingBalance: 0},
	}

	tests := []struct {
		name            string
		month           int
		expectFound     bool
		expectedBalance float64
	}{
		{"First month", 1, true, 20},
		{"Last month", 3, true, 0},
		{"Month zero", 0, false, 0},
		{"Past the term", 4, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := FindRow(schedule, tt.month)
			if !tt.expectFound {
				if row != nil {
					t.Errorf("FindRow(%d) = %+v, expected nil", tt.month, row)
				}
				return
			}
			if row == nil {
				t.Fatalf("FindRow(%d) returned nil", tt.month)
			}
			if row.RemainingBalance != tt.expectedBalance {
				t.Errorf("RemainingBalance = %v, expected %v", row.RemainingBalance, tt.expectedBalance)
			}
		})
	}
}

func TestFindRowEmptySchedule(t *testing.T) {
	if row := FindRow(nil, 1); row != nil {
		t.Errorf("FindRow(nil, 1) = %+v, expected nil", row)
	}
}

func TestMustCompute(t *testing.T) {
	result := MustCompute(t, InsuredLoan())

	if len(result.Schedule) != StandardLoan().TermMonths {
		t.Fatalf("expected %d rows, got %d", StandardLoan().TermMonths, len(result.Schedule))
	}
	if last := FindRow(result.Schedule, 60); last == nil || last.RemainingBalance != 0 {
		t.Errorf("expected zero final balance, got %+v", last)
	}
	if result.MonthlyInsurance <= 0 {
		t.Errorf("expected insurance on InsuredLoan, got %v", result.MonthlyInsurance)
	}
}
