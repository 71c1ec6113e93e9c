package fixtures

import (
	"time"

	"github.com/istmosoft/planilla-backend-go/internal/domain/taxtable"
	"github.com/shopspring/decimal"
)

// Statutory tables for Panama, effective 2024. Used to seed new companies and
// by the engine tests.

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// PanamaTaxConfig returns the progressive ISR table: 0% up to 11,000 of annual
// net taxable income, 15% from 11,000 to 50,000, 25% above. Dependent
// deduction is 800 per dependent, at most 3 dependents.
func PanamaTaxConfig(companyID string, effectiveFrom time.Time) taxtable.TaxConfig {
	upper1 := dec("11000")
	upper2 := dec("50000")

	return taxtable.TaxConfig{
		CompanyID:     companyID,
		EffectiveFrom: effectiveFrom,
		Brackets: []taxtable.TaxBracket{
			{
				ID:               "isr-exempt",
				LowerBound:       decimal.Zero,
				UpperBound:       &upper1,
				Rate:             decimal.Zero,
				FixedAmountBelow: decimal.Zero,
			},
			{
				ID:               "isr-15",
				LowerBound:       dec("11000"),
				UpperBound:       &upper2,
				Rate:             dec("0.15"),
				FixedAmountBelow: decimal.Zero,
			},
			{
				ID:               "isr-25",
				LowerBound:       dec("50000"),
				UpperBound:       nil,
				Rate:             dec("0.25"),
				FixedAmountBelow: dec("5850"), // 15% of the 11,000-50,000 band
			},
		},
		DependentDeduction: dec("800"),
		MaxDependents:      3,
	}
}

// PanamaContributionRates returns CSS/SE rates: CSS 9.75% employee / 12.25%
// employer on the capped base, SE 1.25% / 1.50% uncapped, and the
// riesgos-profesionales premium by job risk class.
func PanamaContributionRates(effectiveFrom time.Time) taxtable.ContributionRates {
	return taxtable.ContributionRates{
		EffectiveFrom:   effectiveFrom,
		CSSEmployeeRate: dec("0.0975"),
		CSSEmployerRate: dec("0.1225"),
		CSSCapTiers: []taxtable.CSSCapTier{
			{SalaryThreshold: decimal.Zero, Cap: dec("5000")},
			{SalaryThreshold: dec("8000"), Cap: dec("8500")},
			{SalaryThreshold: dec("12000"), Cap: dec("13000")},
		},
		SEEmployeeRate: dec("0.0125"),
		SEEmployerRate: dec("0.015"),
		RiskRateByLevel: map[taxtable.RiskLevel]decimal.Decimal{
			taxtable.RiskLevelLow:    dec("0.0098"),
			taxtable.RiskLevelMedium: dec("0.021"),
			taxtable.RiskLevelHigh:   dec("0.0567"),
		},
	}
}
