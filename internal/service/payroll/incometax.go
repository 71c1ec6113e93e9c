package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/istmosoft/planilla-backend-go/internal/domain/employee"
	"github.com/istmosoft/planilla-backend-go/internal/domain/taxtable"
	"github.com/shopspring/decimal"
)

// IncomeTaxResult - annualized ISR breakdown plus the per-period tax amount.
type IncomeTaxResult struct {
	TaxableIncome      decimal.Decimal // annualized gross
	DependentDeduction decimal.Decimal
	NetTaxableIncome   decimal.Decimal
	TaxAmount          decimal.Decimal // per pay period, rounded to 2 decimals
	EffectiveRate      decimal.Decimal // percent of annual taxable income
}

// IncomeTaxCalculator computes the progressive ISR for one employee and
// period. The bracket table comes from the injected provider; a missing config
// is fatal for the calculation, never substituted with zero.
type IncomeTaxCalculator struct {
	taxTables taxtable.Provider
}

func NewIncomeTaxCalculator(taxTables taxtable.Provider) *IncomeTaxCalculator {
	return &IncomeTaxCalculator{taxTables: taxTables}
}

var oneHundred = decimal.NewFromInt(100)

func (c *IncomeTaxCalculator) Calculate(
	ctx context.Context,
	companyID string,
	grossPay decimal.Decimal,
	frequency employee.PayFrequency,
	dependents int,
	isSubject bool,
	asOf time.Time,
) (IncomeTaxResult, error) {
	if grossPay.IsNegative() {
		return IncomeTaxResult{}, employee.ErrNegativeGrossPay
	}
	if dependents < 0 {
		return IncomeTaxResult{}, employee.ErrNegativeDependents
	}

	// Not subject to ISR: every output is zero and no table lookup happens.
	if !isSubject {
		return zeroIncomeTaxResult(), nil
	}

	periods, err := frequency.PeriodsPerYear()
	if err != nil {
		return IncomeTaxResult{}, err
	}

	cfg, err := c.taxTables.GetTaxConfig(ctx, companyID, asOf)
	if err != nil {
		return IncomeTaxResult{}, fmt.Errorf("income tax lookup for company %s: %w", companyID, err)
	}
	if err := cfg.Validate(); err != nil {
		return IncomeTaxResult{}, fmt.Errorf("tax config %s: %w", cfg.ID, err)
	}

	periodsPerYear := decimal.NewFromInt(periods)
	taxableIncome := grossPay.Mul(periodsPerYear)

	clamped := dependents
	if clamped > cfg.MaxDependents {
		clamped = cfg.MaxDependents
	}
	dependentDeduction := cfg.DependentDeduction.Mul(decimal.NewFromInt(int64(clamped)))

	netTaxable := taxableIncome.Sub(dependentDeduction)
	if netTaxable.IsNegative() {
		netTaxable = decimal.Zero
	}

	annualTax := bracketTax(cfg.Brackets, netTaxable)

	effectiveRate := decimal.Zero
	if taxableIncome.IsPositive() {
		effectiveRate = annualTax.Mul(oneHundred).DivRound(taxableIncome, 2)
	}

	return IncomeTaxResult{
		TaxableIncome:      taxableIncome,
		DependentDeduction: dependentDeduction,
		NetTaxableIncome:   netTaxable,
		TaxAmount:          annualTax.DivRound(periodsPerYear, 2),
		EffectiveRate:      effectiveRate,
	}, nil
}

// bracketTax locates the bracket containing netTaxable and adds its cumulative
// fixed amount to the marginal tax within it. Boundary amounts belong to the
// lower bracket.
func bracketTax(brackets []taxtable.TaxBracket, netTaxable decimal.Decimal) decimal.Decimal {
	if !netTaxable.IsPositive() {
		return decimal.Zero
	}
	for _, b := range brackets {
		if b.Contains(netTaxable) {
			return b.FixedAmountBelow.Add(b.Rate.Mul(netTaxable.Sub(b.LowerBound)))
		}
	}
	return decimal.Zero
}

func zeroIncomeTaxResult() IncomeTaxResult {
	return IncomeTaxResult{
		TaxableIncome:      decimal.Zero,
		DependentDeduction: decimal.Zero,
		NetTaxableIncome:   decimal.Zero,
		TaxAmount:          decimal.Zero,
		EffectiveRate:      decimal.Zero,
	}
}
