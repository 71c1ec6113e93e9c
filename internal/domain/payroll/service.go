package payroll

import "context"

// PayrollService - the engine's exposed surface. CalculateRun is idempotent
// given unchanged upstream data; all run mutations go through the status
// transition table.
type PayrollService interface {
	CreateRun(ctx context.Context, companyID string, req CreatePayrollRunRequest) (PayrollRunResponse, error)
	GetRun(ctx context.Context, companyID string, id string) (PayrollRunResponse, error)
	ListRuns(ctx context.Context, companyID string, filter PayrollRunFilter) (ListPayrollRunResponse, error)
	GetRunDetails(ctx context.Context, companyID string, id string) ([]PayrollDetailResponse, error)

	CalculateRun(ctx context.Context, companyID string, id string) (PayrollRunResponse, error)
	ApproveRun(ctx context.Context, companyID string, id string, approvedBy string) (PayrollRunResponse, error)
	CancelRun(ctx context.Context, companyID string, id string) (PayrollRunResponse, error)
	MarkRunPaid(ctx context.Context, companyID string, id string) (PayrollRunResponse, error)
}
