package payroll

import (
	"time"

	"github.com/istmosoft/planilla-backend-go/internal/domain/deduction"
	"github.com/istmosoft/planilla-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RUN DTOs ==========

type CreatePayrollRunRequest struct {
	PayrollNumber string `json:"payroll_number"`
	PeriodStart   string `json:"period_start"` // YYYY-MM-DD
	PeriodEnd     string `json:"period_end"`   // YYYY-MM-DD
	PayDate       string `json:"pay_date"`     // YYYY-MM-DD
}

func (r *CreatePayrollRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PayrollNumber) {
		errs = append(errs, validator.ValidationError{Field: "payroll_number", Message: "is required"})
	} else if !validator.IsValidPayrollNumber(r.PayrollNumber) {
		errs = append(errs, validator.ValidationError{Field: "payroll_number", Message: "must match PLA-YYYY-NNNN"})
	}

	periodStart, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	periodEnd, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	payDate, okPay := validator.IsValidDate(r.PayDate)
	if !okPay {
		errs = append(errs, validator.ValidationError{Field: "pay_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}

	if okStart && okEnd && periodEnd.Before(periodStart) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}
	if okEnd && okPay && payDate.Before(periodEnd) {
		errs = append(errs, validator.ValidationError{Field: "pay_date", Message: "must not be before period_end"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollRunResponse struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	PayrollNumber   string          `json:"payroll_number"`
	PeriodStart     string          `json:"period_start"`
	PeriodEnd       string          `json:"period_end"`
	PayDate         string          `json:"pay_date"`
	Status          string          `json:"status"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	EmployerCost    decimal.Decimal `json:"employer_cost"`
	ApprovedAt      *string         `json:"approved_at,omitempty"`
	PaidAt          *string         `json:"paid_at,omitempty"`
}

type PayrollDetailResponse struct {
	ID              string                    `json:"id"`
	EmployeeID      string                    `json:"employee_id"`
	GrossPay        decimal.Decimal           `json:"gross_pay"`
	CSSEmployee     decimal.Decimal           `json:"css_employee"`
	CSSEmployer     decimal.Decimal           `json:"css_employer"`
	SEEmployee      decimal.Decimal           `json:"se_employee"`
	SEEmployer      decimal.Decimal           `json:"se_employer"`
	RiskPremium     decimal.Decimal           `json:"risk_premium"`
	IncomeTax       decimal.Decimal           `json:"income_tax"`
	OtherDeductions []deduction.DeductionLine `json:"other_deductions"`
	TotalDeductions decimal.Decimal           `json:"total_deductions"`
	NetPay          decimal.Decimal           `json:"net_pay"`
	EmployerCost    decimal.Decimal           `json:"employer_cost"`
}

type PayrollRunFilter struct {
	Status *PayrollStatus
	Year   *int
	Page   int
	Limit  int
}

type ListPayrollRunResponse struct {
	Data       []PayrollRunResponse `json:"data"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}

// MapRunResponse converts a header to its API shape.
func MapRunResponse(h PayrollHeader) PayrollRunResponse {
	var approvedAt, paidAt *string
	if h.ApprovedAt != nil {
		str := h.ApprovedAt.Format(time.RFC3339)
		approvedAt = &str
	}
	if h.PaidAt != nil {
		str := h.PaidAt.Format(time.RFC3339)
		paidAt = &str
	}

	return PayrollRunResponse{
		ID:              h.ID,
		CompanyID:       h.CompanyID,
		PayrollNumber:   h.PayrollNumber,
		PeriodStart:     h.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       h.PeriodEnd.Format("2006-01-02"),
		PayDate:         h.PayDate.Format("2006-01-02"),
		Status:          string(h.Status),
		GrossPay:        h.GrossPay,
		TotalDeductions: h.TotalDeductions,
		NetPay:          h.NetPay,
		EmployerCost:    h.EmployerCost,
		ApprovedAt:      approvedAt,
		PaidAt:          paidAt,
	}
}

// MapDetailResponses converts detail rows to their API shape.
func MapDetailResponses(details []PayrollDetail) []PayrollDetailResponse {
	result := make([]PayrollDetailResponse, 0, len(details))
	for _, d := range details {
		result = append(result, PayrollDetailResponse{
			ID:              d.ID,
			EmployeeID:      d.EmployeeID,
			GrossPay:        d.GrossPay,
			CSSEmployee:     d.CSSEmployee,
			CSSEmployer:     d.CSSEmployer,
			SEEmployee:      d.SEEmployee,
			SEEmployer:      d.SEEmployer,
			RiskPremium:     d.RiskPremium,
			IncomeTax:       d.IncomeTax,
			OtherDeductions: d.OtherDeductions,
			TotalDeductions: d.TotalDeductions,
			NetPay:          d.NetPay,
			EmployerCost:    d.EmployerCost,
		})
	}
	return result
}
