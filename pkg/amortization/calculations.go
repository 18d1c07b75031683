// Package amortization computes fixed-rate loan payments, month-by-month
// amortization schedules and the aggregate cost of a loan.
package amortization

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

// ErrInvalidParameters is returned for every input that cannot produce a
// schedule. No partial result accompanies it.
var ErrInvalidParameters = errors.New("invalid loan parameters")

// ErrNonFinitePayment marks inputs that pass validation but make the payment
// formula overflow or divide by zero. It wraps ErrInvalidParameters.
var ErrNonFinitePayment = fmt.Errorf("%w: payment is not a finite number", ErrInvalidParameters)

// Parameters are the inputs of a single calculation. Rates are annual
// percentages, so 6.0 means 6%.
type Parameters struct {
	Principal           float64 `json:"principal" yaml:"principal"`
	AnnualInterestRate  float64 `json:"interestRate" yaml:"interestRate"`
	TermMonths          int     `json:"termMonths" yaml:"termMonths"`
	AnnualInsuranceRate float64 `json:"insuranceRate" yaml:"insuranceRate"`
}

// Row holds the values for a given month of the schedule.
type Row struct {
	Month            int     `json:"month" yaml:"month"`
	Principal        float64 `json:"principal" yaml:"principal"`
	Interest         float64 `json:"interest" yaml:"interest"`
	Insurance        float64 `json:"insurance" yaml:"insurance"`
	TotalPayment     float64 `json:"totalPayment" yaml:"totalPayment"`
	RemainingBalance float64 `json:"remainingBalance" yaml:"remainingBalance"`
}

// Result is the outcome of a successful calculation.
type Result struct {
	// MonthlyPayment is the steady payment including insurance. It does not
	// reflect the adjustment applied to the final month.
	MonthlyPayment   float64 `json:"monthlyPayment" yaml:"monthlyPayment"`
	MonthlyInsurance float64 `json:"monthlyInsurance" yaml:"monthlyInsurance"`
	TotalInterest    float64 `json:"totalInterest" yaml:"totalInterest"`
	TotalInsurance   float64 `json:"totalInsurance" yaml:"totalInsurance"`
	TotalCost        float64 `json:"totalCost" yaml:"totalCost"`
	Schedule         []Row   `json:"amortizationSchedule" yaml:"amortizationSchedule"`
}

// Validate checks the parameters and returns an error wrapping
// ErrInvalidParameters when they cannot be computed.
func (p Parameters) Validate() error {
	if !mathutil.IsFinite(p.Principal) || p.Principal <= 0 {
		return fmt.Errorf("%w: principal must be positive, got %v", ErrInvalidParameters, p.Principal)
	}
	if !mathutil.IsFinite(p.AnnualInterestRate) || p.AnnualInterestRate < 0 {
		return fmt.Errorf("%w: interest rate must not be negative, got %v", ErrInvalidParameters, p.AnnualInterestRate)
	}
	if p.TermMonths <= 0 {
		return fmt.Errorf("%w: term must be at least one month, got %d", ErrInvalidParameters, p.TermMonths)
	}
	if p.TermMonths > constants.MaxTermMonths {
		return fmt.Errorf("%w: term must not exceed %d months, got %d", ErrInvalidParameters, constants.MaxTermMonths, p.TermMonths)
	}
	if !mathutil.IsFinite(p.AnnualInsuranceRate) || p.AnnualInsuranceRate < 0 {
		return fmt.Errorf("%w: insurance rate must not be negative, got %v", ErrInvalidParameters, p.AnnualInsuranceRate)
	}
	return nil
}

// LevelPayment calculates the principal and interest payment for a loan using
// the standard annuity formula, or a straight-line split at zero interest.
func LevelPayment(principal, annualInterestRate float64, termMonths int) float64 {
	monthlyRate := mathutil.PercentToMonthlyRate(annualInterestRate)
	if monthlyRate > 0 {
		power := math.Pow(1+monthlyRate, float64(termMonths))
		return principal * (monthlyRate * power) / (power - 1)
	}
	return principal / float64(termMonths)
}

// MonthlyInsurance calculates the flat insurance charge. It is based on the
// original principal and does not decline with the balance.
func MonthlyInsurance(principal, annualInsuranceRate float64) float64 {
	return principal * mathutil.PercentToMonthlyRate(annualInsuranceRate)
}

// Calculator produces amortization results.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a new calculator instance
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

var defaultCalculator = NewCalculator(nil)

// Compute runs a calculation without logging.
func Compute(params Parameters) (Result, error) {
	return defaultCalculator.Compute(params)
}

// Compute validates params and builds the full schedule and totals.
func (c *Calculator) Compute(params Parameters) (Result, error) {
	if err := params.Validate(); err != nil {
		c.logger.Debug("rejected loan parameters",
			zap.String("op", "amortization.Compute"),
			zap.Error(err),
		)
		return Result{}, err
	}

	monthlyRate := mathutil.PercentToMonthlyRate(params.AnnualInterestRate)
	monthlyInsurance := MonthlyInsurance(params.Principal, params.AnnualInsuranceRate)

	payment := LevelPayment(params.Principal, params.AnnualInterestRate, params.TermMonths)
	if !mathutil.IsFinite(payment) || !mathutil.IsFinite(payment+monthlyInsurance) {
		err := fmt.Errorf("%w (rate %v%%, term %d months)", ErrNonFinitePayment,
			params.AnnualInterestRate, params.TermMonths)
		c.logger.Debug("payment formula degenerated",
			zap.String("op", "amortization.Compute"),
			zap.Float64("payment", payment),
			zap.Float64("monthlyInsurance", monthlyInsurance),
			zap.Error(err),
		)
		return Result{}, err
	}

	result := Result{
		MonthlyPayment:   payment + monthlyInsurance,
		MonthlyInsurance: monthlyInsurance,
		Schedule:         make([]Row, 0, params.TermMonths),
	}

	balance := params.Principal
	for month := 1; month <= params.TermMonths; month++ {
		interest := balance * monthlyRate
		principal := payment - interest

		// The final installment pays whatever is left so the loan closes at
		// exactly zero regardless of accumulated drift.
		if month == params.TermMonths {
			principal = balance
		}

		balance -= principal
		result.TotalInterest += interest

		result.Schedule = append(result.Schedule, Row{
			Month:            month,
			Principal:        principal,
			Interest:         interest,
			Insurance:        monthlyInsurance,
			TotalPayment:     principal + interest + monthlyInsurance,
			RemainingBalance: mathutil.ClampNonNegative(balance),
		})
	}

	result.TotalInsurance = monthlyInsurance * float64(params.TermMonths)
	result.TotalCost = params.Principal + result.TotalInterest + result.TotalInsurance
	if !mathutil.IsFinite(result.TotalCost) {
		err := fmt.Errorf("%w: total cost overflows for principal %v", ErrNonFinitePayment, params.Principal)
		c.logger.Debug("loan totals overflowed",
			zap.String("op", "amortization.Compute"),
			zap.Float64("totalInterest", result.TotalInterest),
			zap.Float64("totalInsurance", result.TotalInsurance),
			zap.Error(err),
		)
		return Result{}, err
	}

	c.logger.Debug(fmt.Sprintf("computed %d month schedule with payment %.2f", params.TermMonths, result.MonthlyPayment),
		zap.String("op", "amortization.Compute"),
		zap.Float64("totalInterest", result.TotalInterest),
		zap.Float64("totalInsurance", result.TotalInsurance),
	)

	return result, nil
}
