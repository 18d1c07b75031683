package validation

import (
	"fmt"

	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
)

// ParameterWarnings returns human-readable warnings for loan parameters that
// are computable but unusual. Parameters that cannot be computed are reported
// by amortization.Parameters.Validate instead.
func ParameterWarnings(params amortization.Parameters) []string {
	var warnings []string

	if params.AnnualInsuranceRate < 0 {
		warnings = append(warnings, fmt.Sprintf("Insurance rate %.2f%% is negative and will be rejected",
			params.AnnualInsuranceRate))
	}

	if params.AnnualInterestRate > constants.HighInterestRateWarning {
		warnings = append(warnings, fmt.Sprintf("Interest rate %.2f%% exceeds %.0f%% - check that it is an annual percentage",
			params.AnnualInterestRate, constants.HighInterestRateWarning))
	}

	if params.AnnualInterestRate > 0 && params.AnnualInterestRate < 0.01 {
		warnings = append(warnings, fmt.Sprintf("Interest rate %v%% looks like a decimal fraction rather than a percentage",
			params.AnnualInterestRate))
	}

	if params.TermMonths > constants.MaxTermMonths {
		warnings = append(warnings, fmt.Sprintf("Term of %d months exceeds %d months and will be rejected",
			params.TermMonths, constants.MaxTermMonths))
	}

	return warnings
}
