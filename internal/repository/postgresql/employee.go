package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/istmosoft/planilla-backend-go/internal/domain/employee"
	"github.com/istmosoft/planilla-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetActiveByCompanyID(ctx context.Context, companyID string, asOf time.Time) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_code, full_name, gross_base_pay, pay_frequency,
			   dependent_count, is_subject_to_income_tax, risk_level, employment_status,
			   hire_date, created_at, updated_at
		FROM employees
		WHERE company_id = $1
		  AND employment_status = $2
		  AND hire_date <= $3
		ORDER BY id`

	rows, err := q.Query(ctx, query, companyID, employee.EmploymentStatusActive, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.EmployeeCode, &e.FullName, &e.GrossBasePay, &e.PayFrequency,
			&e.DependentCount, &e.IsSubjectToIncomeTax, &e.RiskLevel, &e.EmploymentStatus,
			&e.HireDate, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, nil
}
