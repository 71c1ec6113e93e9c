package employee

import (
	"context"
	"time"
)

// EmployeeRepository is the narrow read interface the payroll engine consumes.
// Full employee CRUD belongs to employee management, not this module.
type EmployeeRepository interface {
	// GetActiveByCompanyID returns the employees active as of the given date.
	GetActiveByCompanyID(ctx context.Context, companyID string, asOf time.Time) ([]Employee, error)
}
