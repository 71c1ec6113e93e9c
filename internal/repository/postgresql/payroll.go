package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/istmosoft/planilla-backend-go/internal/domain/payroll"
	"github.com/istmosoft/planilla-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollHeaderColumns = `
	id, company_id, payroll_number, period_start, period_end, pay_date, status,
	gross_pay, total_deductions, net_pay, employer_cost,
	approved_at, approved_by, paid_at, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanPayrollHeader(row scanner) (payroll.PayrollHeader, error) {
	var h payroll.PayrollHeader
	err := row.Scan(
		&h.ID, &h.CompanyID, &h.PayrollNumber, &h.PeriodStart, &h.PeriodEnd, &h.PayDate, &h.Status,
		&h.GrossPay, &h.TotalDeductions, &h.NetPay, &h.EmployerCost,
		&h.ApprovedAt, &h.ApprovedBy, &h.PaidAt, &h.CreatedAt, &h.UpdatedAt,
	)
	return h, err
}

// ========== RUNS ==========

func (r *payrollRepository) CreateRun(ctx context.Context, header payroll.PayrollHeader) (payroll.PayrollHeader, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_headers (
			id, company_id, payroll_number, period_start, period_end, pay_date, status,
			gross_pay, total_deductions, net_pay, employer_cost
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING` + payrollHeaderColumns

	h, err := scanPayrollHeader(q.QueryRow(ctx, query,
		header.ID, header.CompanyID, header.PayrollNumber,
		header.PeriodStart, header.PeriodEnd, header.PayDate, header.Status,
		header.GrossPay, header.TotalDeductions, header.NetPay, header.EmployerCost,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_headers_number") {
			return payroll.PayrollHeader{}, payroll.ErrPayrollNumberExists
		}
		return payroll.PayrollHeader{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	return h, nil
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id string, companyID string) (payroll.PayrollHeader, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + payrollHeaderColumns + `
		FROM payroll_headers
		WHERE id = $1 AND company_id = $2`

	h, err := scanPayrollHeader(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollHeader{}, payroll.ErrPayrollRunNotFound
		}
		return payroll.PayrollHeader{}, fmt.Errorf("failed to get payroll run: %w", err)
	}

	return h, nil
}

func (r *payrollRepository) ListRuns(ctx context.Context, companyID string, filter payroll.PayrollRunFilter) ([]payroll.PayrollHeader, int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) OVER() AS total_count,` + payrollHeaderColumns + `
		FROM payroll_headers
		WHERE company_id = $1`
	args := []interface{}{companyID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		query += fmt.Sprintf(" AND EXTRACT(YEAR FROM period_start) = $%d", len(args))
	}

	query += " ORDER BY period_start DESC, payroll_number DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, (page-1)*limit)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var headers []payroll.PayrollHeader
	var totalCount int64
	for rows.Next() {
		var h payroll.PayrollHeader
		if err := rows.Scan(
			&totalCount,
			&h.ID, &h.CompanyID, &h.PayrollNumber, &h.PeriodStart, &h.PeriodEnd, &h.PayDate, &h.Status,
			&h.GrossPay, &h.TotalDeductions, &h.NetPay, &h.EmployerCost,
			&h.ApprovedAt, &h.ApprovedBy, &h.PaidAt, &h.CreatedAt, &h.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		headers = append(headers, h)
	}

	return headers, totalCount, nil
}

// ========== CALCULATION WRITE ==========

// SaveCalculation holds the header row lock for the whole write, so two
// concurrent recalculations of the same run serialize and readers never see a
// half-replaced detail set.
func (r *payrollRepository) SaveCalculation(ctx context.Context, header payroll.PayrollHeader, details []payroll.PayrollDetail) (payroll.PayrollHeader, error) {
	var saved payroll.PayrollHeader

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		var current payroll.PayrollStatus
		err := tx.QueryRow(ctx,
			`SELECT status FROM payroll_headers WHERE id = $1 AND company_id = $2 FOR UPDATE`,
			header.ID, header.CompanyID,
		).Scan(&current)
		if err != nil {
			if err == pgx.ErrNoRows {
				return payroll.ErrPayrollRunNotFound
			}
			return fmt.Errorf("failed to lock payroll run: %w", err)
		}
		if !current.Calculable() {
			return fmt.Errorf("save calculation in status %s: %w", current, payroll.ErrInvalidStateTransition)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM payroll_details WHERE payroll_header_id = $1`, header.ID,
		); err != nil {
			return fmt.Errorf("failed to clear payroll details: %w", err)
		}

		for _, d := range details {
			lines, err := json.Marshal(d.OtherDeductions)
			if err != nil {
				return fmt.Errorf("failed to encode deduction lines: %w", err)
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO payroll_details (
					id, payroll_header_id, employee_id, gross_pay,
					css_employee, css_employer, se_employee, se_employer, risk_premium,
					income_tax, other_deductions, total_deductions, net_pay, employer_cost
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
				d.ID, header.ID, d.EmployeeID, d.GrossPay,
				d.CSSEmployee, d.CSSEmployer, d.SEEmployee, d.SEEmployer, d.RiskPremium,
				d.IncomeTax, lines, d.TotalDeductions, d.NetPay, d.EmployerCost,
			); err != nil {
				return fmt.Errorf("failed to insert payroll detail for employee %s: %w", d.EmployeeID, err)
			}
		}

		saved, err = scanPayrollHeader(tx.QueryRow(ctx, `
			UPDATE payroll_headers
			SET status = $3, gross_pay = $4, total_deductions = $5, net_pay = $6,
				employer_cost = $7, updated_at = NOW()
			WHERE id = $1 AND company_id = $2
			RETURNING`+payrollHeaderColumns,
			header.ID, header.CompanyID, header.Status,
			header.GrossPay, header.TotalDeductions, header.NetPay, header.EmployerCost,
		))
		if err != nil {
			return fmt.Errorf("failed to update payroll run totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.PayrollHeader{}, err
	}

	return saved, nil
}

// ========== STATUS ==========

func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, companyID string, expected, next payroll.PayrollStatus, actor *string) (payroll.PayrollHeader, error) {
	q := GetQuerier(ctx, r.db)

	set := "status = $4, updated_at = NOW()"
	args := []interface{}{id, companyID, expected, next}
	if next == payroll.PayrollStatusApproved {
		set += ", approved_at = NOW()"
		if actor != nil {
			args = append(args, *actor)
			set += fmt.Sprintf(", approved_by = $%d", len(args))
		}
	}
	if next == payroll.PayrollStatusPaid {
		set += ", paid_at = NOW()"
	}

	query := fmt.Sprintf(`
		UPDATE payroll_headers
		SET %s
		WHERE id = $1 AND company_id = $2 AND status = $3
		RETURNING`+payrollHeaderColumns, set)

	h, err := scanPayrollHeader(q.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			// Either the run is gone or another writer moved it first.
			if _, getErr := r.GetRunByID(ctx, id, companyID); getErr != nil {
				return payroll.PayrollHeader{}, getErr
			}
			return payroll.PayrollHeader{}, fmt.Errorf("status changed concurrently: %w", payroll.ErrInvalidStateTransition)
		}
		return payroll.PayrollHeader{}, fmt.Errorf("failed to update payroll run status: %w", err)
	}

	return h, nil
}

// ========== DETAILS ==========

func (r *payrollRepository) GetDetailsByRunID(ctx context.Context, headerID string, companyID string) ([]payroll.PayrollDetail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, d.payroll_header_id, d.employee_id, d.gross_pay,
			   d.css_employee, d.css_employer, d.se_employee, d.se_employer, d.risk_premium,
			   d.income_tax, d.other_deductions, d.total_deductions, d.net_pay, d.employer_cost,
			   d.created_at
		FROM payroll_details d
		JOIN payroll_headers h ON h.id = d.payroll_header_id
		WHERE d.payroll_header_id = $1 AND h.company_id = $2
		ORDER BY d.employee_id`

	rows, err := q.Query(ctx, query, headerID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll details: %w", err)
	}
	defer rows.Close()

	var details []payroll.PayrollDetail
	for rows.Next() {
		var d payroll.PayrollDetail
		var lines []byte
		if err := rows.Scan(
			&d.ID, &d.PayrollHeaderID, &d.EmployeeID, &d.GrossPay,
			&d.CSSEmployee, &d.CSSEmployer, &d.SEEmployee, &d.SEEmployer, &d.RiskPremium,
			&d.IncomeTax, &lines, &d.TotalDeductions, &d.NetPay, &d.EmployerCost,
			&d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll detail: %w", err)
		}
		if len(lines) > 0 {
			if err := json.Unmarshal(lines, &d.OtherDeductions); err != nil {
				return nil, fmt.Errorf("failed to decode deduction lines: %w", err)
			}
		}
		details = append(details, d)
	}

	return details, nil
}

func (r *payrollRepository) CountDetails(ctx context.Context, headerID string, companyID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM payroll_details d
		JOIN payroll_headers h ON h.id = d.payroll_header_id
		WHERE d.payroll_header_id = $1 AND h.company_id = $2`,
		headerID, companyID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count payroll details: %w", err)
	}

	return count, nil
}
