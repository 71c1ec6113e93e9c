package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/istmosoft/planilla-backend-go/internal/domain/employee"
	"github.com/istmosoft/planilla-backend-go/internal/domain/taxtable"
	"github.com/istmosoft/planilla-backend-go/internal/fixtures"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

var testAsOf = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

func TestIncomeTax_Calculate_BelowExemptThreshold(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	calc := NewIncomeTaxCalculator(newPanamaTaxTables("company-1"))

	// 900/month annualizes to 10,800, inside the exempt bracket.
	result, err := calc.Calculate(ctx, "company-1", dec("900"), employee.PayFrequencyMonthly, 0, true, testAsOf)

	require.NoError(t, err)
	assertDecimal(t, "10800", result.TaxableIncome)
	assertDecimal(t, "0", result.TaxAmount)
	assertDecimal(t, "0", result.EffectiveRate)
}

func TestIncomeTax_Calculate_MiddleBracket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	calc := NewIncomeTaxCalculator(newPanamaTaxTables("company-1"))

	// 3,000/month = 36,000/year: 15% of (36,000 - 11,000) = 3,750/year.
	result, err := calc.Calculate(ctx, "company-1", dec("3000"), employee.PayFrequencyMonthly, 0, true, testAsOf)

	require.NoError(t, err)
	assertDecimal(t, "36000", result.TaxableIncome)
	assertDecimal(t, "36000", result.NetTaxableIncome)
	assertDecimal(t, "312.50", result.TaxAmount)
	assertDecimal(t, "10.42", result.EffectiveRate)
}

func TestIncomeTax_Calculate_TopBracket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	calc := NewIncomeTaxCalculator(newPanamaTaxTables("company-1"))

	// 6,000/month = 72,000/year: 5,850 + 25% of (72,000 - 50,000) = 11,350/year.
	result, err := calc.Calculate(ctx, "company-1", dec("6000"), employee.PayFrequencyMonthly, 0, true, testAsOf)

	require.NoError(t, err)
	assertDecimal(t, "945.83", result.TaxAmount)
	assertDecimal(t, "15.76", result.EffectiveRate)
}

func TestIncomeTax_Calculate_BiweeklyAnnualization(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	calc := NewIncomeTaxCalculator(newPanamaTaxTables("company-1"))

	// 1,500/biweekly = 36,000/year, same annual tax as the monthly case but
	// split over 24 periods.
	result, err := calc.Calculate(ctx, "company-1", dec("1500"), employee.PayFrequencyBiweekly, 0, true, testAsOf)

	require.NoError(t, err)
	assertDecimal(t, "36000", result.TaxableIncome)
	assertDecimal(t, "156.25", result.TaxAmount)
}

func TestIncomeTax_Calculate_DependentDeductionClamped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	calc := NewIncomeTaxCalculator(newPanamaTaxTables("company-1"))

	// 5 dependents clamp to 3: deduction 2,400, net taxable 33,600,
	// tax 15% of 22,600 = 3,390/year.
	result, err := calc.Calculate(ctx, "company-1", dec("3000"), employee.PayFrequencyMonthly, 5, true, testAsOf)

	require.NoError(t, err)
	assertDecimal(t, "2400", result.DependentDeduction)
	assertDecimal(t, "33600", result.NetTaxableIncome)
	assertDecimal(t, "282.50", result.TaxAmount)
}

func TestIncomeTax_Calculate_NotSubjectSkipsLookup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tables := newPanamaTaxTables("company-1")
	calc := NewIncomeTaxCalculator(tables)

	result, err := calc.Calculate(ctx, "company-1", dec("6000"), employee.PayFrequencyMonthly, 2, false, testAsOf)

	require.NoError(t, err)
	assertDecimal(t, "0", result.TaxableIncome)
	assertDecimal(t, "0", result.TaxAmount)
	assertDecimal(t, "0", result.EffectiveRate)
	assert.Zero(t, tables.taxConfigHits)
}

func TestIncomeTax_Calculate_MissingConfig(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	calc := NewIncomeTaxCalculator(&fakeTaxTables{})

	_, err := calc.Calculate(ctx, "company-1", dec("3000"), employee.PayFrequencyMonthly, 0, true, testAsOf)

	assert.ErrorIs(t, err, taxtable.ErrTaxConfigNotFound)
}

func TestIncomeTax_Calculate_EmptyBracketTable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := fixtures.PanamaTaxConfig("company-1", testAsOf)
	cfg.Brackets = nil
	calc := NewIncomeTaxCalculator(&fakeTaxTables{taxConfig: &cfg})

	_, err := calc.Calculate(ctx, "company-1", dec("3000"), employee.PayFrequencyMonthly, 0, true, testAsOf)

	assert.ErrorIs(t, err, taxtable.ErrEmptyBracketTable)
}

func TestIncomeTax_Calculate_UnknownFrequency(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	calc := NewIncomeTaxCalculator(newPanamaTaxTables("company-1"))

	_, err := calc.Calculate(ctx, "company-1", dec("3000"), employee.PayFrequency("quarterly"), 0, true, testAsOf)

	assert.ErrorIs(t, err, employee.ErrUnknownPayFrequency)
}

func TestIncomeTax_Calculate_InvalidInputs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	calc := NewIncomeTaxCalculator(newPanamaTaxTables("company-1"))

	_, err := calc.Calculate(ctx, "company-1", dec("-100"), employee.PayFrequencyMonthly, 0, true, testAsOf)
	assert.ErrorIs(t, err, employee.ErrNegativeGrossPay)

	_, err = calc.Calculate(ctx, "company-1", dec("3000"), employee.PayFrequencyMonthly, -1, true, testAsOf)
	assert.ErrorIs(t, err, employee.ErrNegativeDependents)
}

func TestIncomeTax_BracketTax_Boundaries(t *testing.T) {
	t.Parallel()
	brackets := fixtures.PanamaTaxConfig("company-1", testAsOf).Brackets

	tests := []struct {
		name       string
		netTaxable string
		want       string
	}{
		{"zero", "0", "0"},
		{"exempt threshold belongs to exempt bracket", "11000", "0"},
		{"just above exempt threshold", "11000.01", "0.0015"},
		{"middle bracket upper bound", "50000", "5850"},
		{"just above middle bracket", "50000.01", "5850.0025"},
		{"deep into top bracket", "100000", "18350"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := bracketTax(brackets, dec(tt.netTaxable))
			assertDecimal(t, tt.want, got)
		})
	}
}

// The tax function must be continuous across bracket edges: approaching an
// edge from either side converges to the same amount.
func TestIncomeTax_BracketTax_ContinuousAcrossEdges(t *testing.T) {
	t.Parallel()
	brackets := fixtures.PanamaTaxConfig("company-1", testAsOf).Brackets
	step := dec("0.01")

	for _, edge := range []string{"11000", "50000"} {
		at := bracketTax(brackets, dec(edge))
		above := bracketTax(brackets, dec(edge).Add(step))
		gap := above.Sub(at)
		assert.True(t, gap.LessThan(dec("0.01")),
			"edge %s: tax jumps by %s", edge, gap)
	}
}

func TestIncomeTax_Calculate_ConfigLookupError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("connection refused")
	calc := NewIncomeTaxCalculator(&fakeTaxTables{taxConfigErr: boom})

	_, err := calc.Calculate(ctx, "company-1", dec("3000"), employee.PayFrequencyMonthly, 0, true, testAsOf)

	assert.ErrorIs(t, err, boom)
}
