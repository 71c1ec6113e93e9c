package employee

import (
	"time"

	"github.com/istmosoft/planilla-backend-go/internal/domain/taxtable"
	"github.com/shopspring/decimal"
)

// Employee - read-only snapshot of what the payroll engine needs to know about
// an employee. Employee management owns the full record; this package only
// models the calculation inputs.
type Employee struct {
	ID                   string
	CompanyID            string
	EmployeeCode         string
	FullName             string
	GrossBasePay         decimal.Decimal // per pay period
	PayFrequency         PayFrequency
	DependentCount       int
	IsSubjectToIncomeTax bool
	RiskLevel            taxtable.RiskLevel
	EmploymentStatus     EmploymentStatus
	HireDate             time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type PayFrequency string

const (
	PayFrequencyMonthly  PayFrequency = "monthly"
	PayFrequencyBiweekly PayFrequency = "biweekly"
	PayFrequencyWeekly   PayFrequency = "weekly"
)

// PeriodsPerYear returns how many pay periods a year holds for the frequency.
// Unrecognized frequencies are a hard input error, not a default.
func (f PayFrequency) PeriodsPerYear() (int64, error) {
	switch f {
	case PayFrequencyMonthly:
		return 12, nil
	case PayFrequencyBiweekly:
		return 24, nil
	case PayFrequencyWeekly:
		return 52, nil
	default:
		return 0, ErrUnknownPayFrequency
	}
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
