package calculator

import (
	"context"
	"testing"
	"time"

	"github.com/iwvelando/loan-calculator/internal/cache"
	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"go.uber.org/zap"
)

// TestPerformance times cold and memoized calculations of the longest allowed term.
func TestPerformance(t *testing.T) {
	// Skip this test unless running in verbose mode
	if !testing.Verbose() {
		t.Skip("Skipping performance test. Run with -v to enable.")
	}

	logger, _ := zap.NewDevelopment()
	service := NewService(logger, cache.NewMemoryStore(constants.DefaultCacheMaxEntries), time.Minute)
	params := amortization.Parameters{
		Principal:           1500000,
		AnnualInterestRate:  4.75,
		TermMonths:          constants.DefaultMaxTermMonths,
		AnnualInsuranceRate: 0.3,
	}

	start := time.Now()
	cold, err := service.Calculate(context.Background(), params)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	coldTime := time.Since(start)

	start = time.Now()
	warm, err := service.Calculate(context.Background(), params)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	warmTime := time.Since(start)

	t.Logf("Performance metrics:")
	t.Logf("  Cold calculation: %v", coldTime)
	t.Logf("  Memoized calculation: %v", warmTime)

	if coldTime+warmTime > 5*time.Second {
		t.Errorf("Total processing time %v exceeds 5 second threshold", coldTime+warmTime)
	}
	if len(cold.Schedule) != constants.DefaultMaxTermMonths || len(warm.Schedule) != len(cold.Schedule) {
		t.Errorf("unexpected schedule lengths %d and %d", len(cold.Schedule), len(warm.Schedule))
	}
}

// TestDataConsistency validates that multiple runs produce identical results
func TestDataConsistency(t *testing.T) {
	service := NewService(zap.NewNop(), cache.NewMemoryStore(4), time.Minute)
	params := amortization.Parameters{Principal: 325000, AnnualInterestRate: 3.9, TermMonths: 300, AnnualInsuranceRate: 0.25}

	var first amortization.Result
	for run := 0; run < 3; run++ {
		result, err := service.Calculate(context.Background(), params)
		if err != nil {
			t.Fatalf("Calculate failed on run %d: %v", run, err)
		}

		if run == 0 {
			first = result
			continue
		}

		if result.TotalCost != first.TotalCost || result.MonthlyPayment != first.MonthlyPayment {
			t.Errorf("Run %d: totals mismatch %v/%v != %v/%v",
				run, result.MonthlyPayment, result.TotalCost, first.MonthlyPayment, first.TotalCost)
		}
		if len(result.Schedule) != len(first.Schedule) {
			t.Fatalf("Run %d: schedule length mismatch %d != %d", run, len(result.Schedule), len(first.Schedule))
		}

		// Check a few key months
		for _, month := range []int{1, 150, 300} {
			if result.Schedule[month-1] != first.Schedule[month-1] {
				t.Errorf("Run %d, month %d: row mismatch %+v != %+v",
					run, month, result.Schedule[month-1], first.Schedule[month-1])
			}
		}
	}
}
