package payroll

import (
	"fmt"
	"sort"
	"time"

	"github.com/istmosoft/planilla-backend-go/internal/domain/deduction"
	"github.com/shopspring/decimal"
)

// Priorities assigned to one-off items so they merge deterministically with
// the configured recurring deductions: absences adjust pay first, loan
// installments and advance recoveries come after everything configured.
const (
	priorityAbsence         = 0
	priorityLoanInstallment = 1000
	priorityAdvance         = 1100
)

// DeductionAggregator resolves and orders the non-statutory deductions of one
// employee for a period. It trusts loan/advance records as already validated
// by their workflows and enforces no cross-line cap.
type DeductionAggregator struct{}

func NewDeductionAggregator() *DeductionAggregator {
	return &DeductionAggregator{}
}

func (a *DeductionAggregator) Aggregate(
	employeeID string,
	periodStart, periodEnd time.Time,
	grossPay decimal.Decimal,
	deductions []deduction.Deduction,
	loanInstallments []deduction.LoanInstallment,
	approvedAdvances []deduction.Advance,
	absenceDeductions []deduction.AbsenceDeduction,
) ([]deduction.DeductionLine, decimal.Decimal, error) {
	var lines []deduction.DeductionLine

	for _, d := range deductions {
		if d.EmployeeID != employeeID || !d.AppliesTo(periodStart, periodEnd) {
			continue
		}
		if err := d.Validate(); err != nil {
			return nil, decimal.Zero, fmt.Errorf("deduction %s: %w", d.ID, err)
		}

		var amount decimal.Decimal
		if d.IsPercentage {
			amount = grossPay.Mul(*d.Percentage).DivRound(oneHundred, 2)
		} else {
			amount = *d.Amount
		}

		lines = append(lines, deduction.DeductionLine{
			SourceID:    d.ID,
			Type:        d.Type,
			Description: d.Description,
			Priority:    d.Priority,
			Amount:      amount,
		})
	}

	for _, inst := range loanInstallments {
		if inst.Amount.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("loan installment %s: %w", inst.ID, deduction.ErrNegativeDeduction)
		}
		lines = append(lines, deduction.DeductionLine{
			SourceID:    inst.ID,
			Type:        deduction.DeductionTypeLoan,
			Description: fmt.Sprintf("Loan installment %d", inst.InstallmentNumber),
			Priority:    priorityLoanInstallment,
			Amount:      inst.Amount,
		})
	}

	for _, adv := range approvedAdvances {
		if adv.Amount.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("advance %s: %w", adv.ID, deduction.ErrNegativeDeduction)
		}
		lines = append(lines, deduction.DeductionLine{
			SourceID:    adv.ID,
			Type:        deduction.DeductionTypeAdvance,
			Description: "Salary advance recovery",
			Priority:    priorityAdvance,
			Amount:      adv.Amount,
		})
	}

	for _, abs := range absenceDeductions {
		if abs.Amount.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("absence deduction %s: %w", abs.ID, deduction.ErrNegativeDeduction)
		}
		lines = append(lines, deduction.DeductionLine{
			SourceID:    abs.ID,
			Type:        deduction.DeductionTypeAbsence,
			Description: "Unjustified absence " + abs.Date.Format("2006-01-02"),
			Priority:    priorityAbsence,
			Amount:      abs.Amount,
		})
	}

	// Priority ascending, ties broken by source id, so recomputation always
	// yields the same line order.
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Priority != lines[j].Priority {
			return lines[i].Priority < lines[j].Priority
		}
		return lines[i].SourceID < lines[j].SourceID
	})

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount)
	}

	return lines, total, nil
}
