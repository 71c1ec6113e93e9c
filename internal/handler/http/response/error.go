package response

import (
	"errors"
	"net/http"

	"github.com/istmosoft/planilla-backend-go/internal/domain/deduction"
	"github.com/istmosoft/planilla-backend-go/internal/domain/employee"
	"github.com/istmosoft/planilla-backend-go/internal/domain/payroll"
	"github.com/istmosoft/planilla-backend-go/internal/domain/taxtable"
	"github.com/istmosoft/planilla-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Payroll run errors
	case errors.Is(err, payroll.ErrPayrollRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrPayrollNumberExists):
		Conflict(w, "Payroll number already exists")
	case errors.Is(err, payroll.ErrInvalidStateTransition):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrNoDetails):
		Conflict(w, "Payroll run has no calculated details")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Missing statutory configuration: fatal for the run, caller must fix data
	case errors.Is(err, taxtable.ErrTaxConfigNotFound):
		UnprocessableEntity(w, "CONFIGURATION_MISSING", err.Error())
	case errors.Is(err, taxtable.ErrContributionRatesNotFound):
		UnprocessableEntity(w, "CONFIGURATION_MISSING", err.Error())

	// Bad calculation inputs
	case errors.Is(err, taxtable.ErrEmptyBracketTable),
		errors.Is(err, taxtable.ErrMalformedBracketTable),
		errors.Is(err, taxtable.ErrUnknownRiskLevel),
		errors.Is(err, employee.ErrUnknownPayFrequency),
		errors.Is(err, employee.ErrNegativeDependents),
		errors.Is(err, employee.ErrNegativeGrossPay),
		errors.Is(err, deduction.ErrMalformedDeduction),
		errors.Is(err, deduction.ErrNegativeDeduction):
		UnprocessableEntity(w, "INVALID_INPUT", err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
