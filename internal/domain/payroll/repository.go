package payroll

import "context"

// PayrollRepository defines data access for payroll runs.
// All methods include companyID to prevent cross-company data access.
type PayrollRepository interface {
	CreateRun(ctx context.Context, header PayrollHeader) (PayrollHeader, error)
	GetRunByID(ctx context.Context, id string, companyID string) (PayrollHeader, error)
	ListRuns(ctx context.Context, companyID string, filter PayrollRunFilter) ([]PayrollHeader, int64, error)

	// SaveCalculation replaces all detail rows of the run and updates header
	// totals and status in one transaction. The header row is locked for the
	// duration of the write so concurrent recalculations serialize.
	SaveCalculation(ctx context.Context, header PayrollHeader, details []PayrollDetail) (PayrollHeader, error)

	// UpdateStatus transitions the run only if it still is in expected status,
	// returning ErrInvalidStateTransition otherwise.
	UpdateStatus(ctx context.Context, id string, companyID string, expected, next PayrollStatus, actor *string) (PayrollHeader, error)

	GetDetailsByRunID(ctx context.Context, headerID string, companyID string) ([]PayrollDetail, error)
	CountDetails(ctx context.Context, headerID string, companyID string) (int64, error)
}
