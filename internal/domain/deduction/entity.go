package deduction

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductionType enum
type DeductionType string

const (
	DeductionTypeLoan        DeductionType = "loan"
	DeductionTypeAdvance     DeductionType = "advance"
	DeductionTypeGarnishment DeductionType = "garnishment"
	DeductionTypeAbsence     DeductionType = "absence"
	DeductionTypeOther       DeductionType = "other"
)

// Deduction - recurring deduction configured against an employee. Exactly one
// of Amount/Percentage is populated; Percentage resolves against the period
// gross pay at calculation time.
type Deduction struct {
	ID           string
	EmployeeID   string
	Type         DeductionType
	Description  string
	IsPercentage bool
	Amount       *decimal.Decimal
	Percentage   *decimal.Decimal
	Priority     int // lower = applied first
	ValidFrom    time.Time
	ValidTo      *time.Time // nil = open-ended
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the one-representation invariant and sign constraints.
func (d Deduction) Validate() error {
	if d.IsPercentage {
		if d.Percentage == nil || d.Amount != nil {
			return ErrMalformedDeduction
		}
		if d.Percentage.IsNegative() {
			return ErrNegativeDeduction
		}
		return nil
	}
	if d.Amount == nil || d.Percentage != nil {
		return ErrMalformedDeduction
	}
	if d.Amount.IsNegative() {
		return ErrNegativeDeduction
	}
	return nil
}

// AppliesTo reports whether the deduction participates in the given period:
// active, validFrom <= periodEnd, and validTo (when set) >= periodStart.
func (d Deduction) AppliesTo(periodStart, periodEnd time.Time) bool {
	if !d.IsActive {
		return false
	}
	if d.ValidFrom.After(periodEnd) {
		return false
	}
	if d.ValidTo != nil && d.ValidTo.Before(periodStart) {
		return false
	}
	return true
}

// LoanInstallment - one installment of an employee loan falling due in the
// period. Created and validated by the loan workflow; trusted here.
type LoanInstallment struct {
	ID                string
	LoanID            string
	EmployeeID        string
	InstallmentNumber int
	Amount            decimal.Decimal
	DueDate           time.Time
}

// Advance - approved salary advance to be recovered in the period.
type Advance struct {
	ID         string
	EmployeeID string
	Amount     decimal.Decimal
	ApprovedAt time.Time
}

// AbsenceDeduction - pay discount for an unjustified absence in the period.
type AbsenceDeduction struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Amount     decimal.Decimal
}

// DeductionLine - one resolved line of an employee's deduction list for a
// period, ordered by (Priority asc, SourceID asc).
type DeductionLine struct {
	SourceID    string          `json:"source_id"`
	Type        DeductionType   `json:"type"`
	Description string          `json:"description"`
	Priority    int             `json:"priority"`
	Amount      decimal.Decimal `json:"amount"`
}
