package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/istmosoft/planilla-backend-go/internal/domain/employee"
	"github.com/istmosoft/planilla-backend-go/internal/domain/taxtable"
	"github.com/shopspring/decimal"
)

// ContributionResult - CSS/SE amounts for both sides plus the employer-only
// risk premium, each rounded to 2 decimals.
type ContributionResult struct {
	CSSEmployee decimal.Decimal
	CSSEmployer decimal.Decimal
	SEEmployee  decimal.Decimal
	SEEmployer  decimal.Decimal
	RiskPremium decimal.Decimal
}

// ContributionCalculator computes CSS (tiered salary cap), SE (uncapped) and
// the riesgos-profesionales premium for one gross pay figure.
type ContributionCalculator struct {
	taxTables taxtable.Provider
}

func NewContributionCalculator(taxTables taxtable.Provider) *ContributionCalculator {
	return &ContributionCalculator{taxTables: taxTables}
}

func (c *ContributionCalculator) Calculate(
	ctx context.Context,
	grossPay decimal.Decimal,
	riskLevel taxtable.RiskLevel,
	asOf time.Time,
) (ContributionResult, error) {
	if grossPay.IsNegative() {
		return ContributionResult{}, employee.ErrNegativeGrossPay
	}

	rates, err := c.taxTables.GetContributionRates(ctx, asOf)
	if err != nil {
		return ContributionResult{}, fmt.Errorf("contribution rates lookup: %w", err)
	}

	riskRate, err := rates.RiskRate(riskLevel)
	if err != nil {
		return ContributionResult{}, fmt.Errorf("risk level %q: %w", riskLevel, err)
	}

	cssBase := grossPay
	if cap := rates.ApplicableCap(grossPay); cap != nil {
		cssBase = decimal.Min(grossPay, *cap)
	}

	return ContributionResult{
		CSSEmployee: cssBase.Mul(rates.CSSEmployeeRate).Round(2),
		CSSEmployer: cssBase.Mul(rates.CSSEmployerRate).Round(2),
		SEEmployee:  grossPay.Mul(rates.SEEmployeeRate).Round(2),
		SEEmployer:  grossPay.Mul(rates.SEEmployerRate).Round(2),
		RiskPremium: grossPay.Mul(riskRate).Round(2),
	}, nil
}
