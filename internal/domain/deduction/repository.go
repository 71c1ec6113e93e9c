package deduction

import (
	"context"
	"time"
)

// DeductionRepository - read accessors for the period-scoped records the
// aggregator merges. The workflows that create these records validate them;
// the engine trusts the rows as given.
type DeductionRepository interface {
	GetByEmployeePeriod(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]Deduction, error)
	GetLoanInstallments(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]LoanInstallment, error)
	GetApprovedAdvances(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]Advance, error)
	GetAbsenceDeductions(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]AbsenceDeduction, error)
}
