package payroll

import (
	"time"

	"github.com/istmosoft/planilla-backend-go/internal/domain/deduction"
	"github.com/shopspring/decimal"
)

// PayrollStatus enum - lifecycle of a payroll run.
type PayrollStatus string

const (
	PayrollStatusDraft      PayrollStatus = "draft"
	PayrollStatusCalculated PayrollStatus = "calculated"
	PayrollStatusApproved   PayrollStatus = "approved"
	PayrollStatusPaid       PayrollStatus = "paid"
	PayrollStatusCancelled  PayrollStatus = "cancelled"
)

// payrollTransitions is the full transition table. Calculated -> Calculated
// covers recalculation; Paid and Cancelled are terminal.
var payrollTransitions = map[PayrollStatus][]PayrollStatus{
	PayrollStatusDraft:      {PayrollStatusCalculated, PayrollStatusCancelled},
	PayrollStatusCalculated: {PayrollStatusCalculated, PayrollStatusApproved, PayrollStatusCancelled},
	PayrollStatusApproved:   {PayrollStatusPaid},
	PayrollStatusPaid:       {},
	PayrollStatusCancelled:  {},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s PayrollStatus) CanTransitionTo(next PayrollStatus) bool {
	for _, allowed := range payrollTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition exists from s.
func (s PayrollStatus) IsTerminal() bool {
	return len(payrollTransitions[s]) == 0
}

// Calculable reports whether a run in this status may be (re)calculated.
func (s PayrollStatus) Calculable() bool {
	return s == PayrollStatusDraft || s == PayrollStatusCalculated
}

// PayrollHeader - one payroll run. Created in Draft; totals are derived by the
// calculation engine and never hand-edited.
type PayrollHeader struct {
	ID              string
	CompanyID       string
	PayrollNumber   string // unique per company
	PeriodStart     time.Time
	PeriodEnd       time.Time
	PayDate         time.Time
	Status          PayrollStatus
	GrossPay        decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	EmployerCost    decimal.Decimal
	ApprovedAt      *time.Time
	ApprovedBy      *string
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PayrollDetail - one employee's breakdown within a run. Replaced wholesale on
// recalculation while the header is Draft/Calculated; immutable from Approved on.
type PayrollDetail struct {
	ID              string
	PayrollHeaderID string
	EmployeeID      string
	GrossPay        decimal.Decimal
	CSSEmployee     decimal.Decimal
	CSSEmployer     decimal.Decimal
	SEEmployee      decimal.Decimal
	SEEmployer      decimal.Decimal
	RiskPremium     decimal.Decimal
	IncomeTax       decimal.Decimal
	OtherDeductions []deduction.DeductionLine
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	EmployerCost    decimal.Decimal
	CreatedAt       time.Time
}
