package payroll

import "errors"

var (
	ErrPayrollRunNotFound     = errors.New("payroll run not found")
	ErrPayrollNumberExists    = errors.New("payroll number already exists")
	ErrInvalidStateTransition = errors.New("operation not allowed in current payroll status")
	ErrNoDetails              = errors.New("payroll run has no detail rows")
	ErrInvalidPeriod          = errors.New("invalid payroll period")
	ErrRunLocked              = errors.New("payroll run is being modified by another operation")
)
