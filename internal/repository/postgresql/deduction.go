package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/istmosoft/planilla-backend-go/internal/domain/deduction"
	"github.com/istmosoft/planilla-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type deductionRepository struct {
	db *database.DB
}

func NewDeductionRepository(db *database.DB) deduction.DeductionRepository {
	return &deductionRepository{db: db}
}

func (r *deductionRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]deduction.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, type, description, is_percentage, amount, percentage,
			   priority, valid_from, valid_to, is_active, created_at, updated_at
		FROM deductions
		WHERE employee_id = $1
		  AND is_active = true
		  AND valid_from <= $3
		  AND (valid_to IS NULL OR valid_to >= $2)
		ORDER BY priority, id`

	rows, err := q.Query(ctx, query, employeeID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	defer rows.Close()

	var deductions []deduction.Deduction
	for rows.Next() {
		var d deduction.Deduction
		var amount, percentage decimal.NullDecimal
		if err := rows.Scan(
			&d.ID, &d.EmployeeID, &d.Type, &d.Description, &d.IsPercentage, &amount, &percentage,
			&d.Priority, &d.ValidFrom, &d.ValidTo, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deduction: %w", err)
		}
		if amount.Valid {
			d.Amount = &amount.Decimal
		}
		if percentage.Valid {
			d.Percentage = &percentage.Decimal
		}
		deductions = append(deductions, d)
	}

	return deductions, nil
}

func (r *deductionRepository) GetLoanInstallments(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]deduction.LoanInstallment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, loan_id, employee_id, installment_number, amount, due_date
		FROM loan_installments
		WHERE employee_id = $1 AND due_date BETWEEN $2 AND $3 AND paid = false
		ORDER BY due_date, installment_number`

	rows, err := q.Query(ctx, query, employeeID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan installments: %w", err)
	}
	defer rows.Close()

	var installments []deduction.LoanInstallment
	for rows.Next() {
		var inst deduction.LoanInstallment
		if err := rows.Scan(&inst.ID, &inst.LoanID, &inst.EmployeeID, &inst.InstallmentNumber, &inst.Amount, &inst.DueDate); err != nil {
			return nil, fmt.Errorf("failed to scan loan installment: %w", err)
		}
		installments = append(installments, inst)
	}

	return installments, nil
}

func (r *deductionRepository) GetApprovedAdvances(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]deduction.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, amount, approved_at
		FROM salary_advances
		WHERE employee_id = $1 AND status = 'approved' AND approved_at::date BETWEEN $2 AND $3
		ORDER BY approved_at`

	rows, err := q.Query(ctx, query, employeeID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}
	defer rows.Close()

	var advances []deduction.Advance
	for rows.Next() {
		var adv deduction.Advance
		if err := rows.Scan(&adv.ID, &adv.EmployeeID, &adv.Amount, &adv.ApprovedAt); err != nil {
			return nil, fmt.Errorf("failed to scan advance: %w", err)
		}
		advances = append(advances, adv)
	}

	return advances, nil
}

func (r *deductionRepository) GetAbsenceDeductions(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]deduction.AbsenceDeduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, absence_date, amount
		FROM absence_deductions
		WHERE employee_id = $1 AND absence_date BETWEEN $2 AND $3 AND justified = false
		ORDER BY absence_date`

	rows, err := q.Query(ctx, query, employeeID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list absence deductions: %w", err)
	}
	defer rows.Close()

	var absences []deduction.AbsenceDeduction
	for rows.Next() {
		var abs deduction.AbsenceDeduction
		if err := rows.Scan(&abs.ID, &abs.EmployeeID, &abs.Date, &abs.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan absence deduction: %w", err)
		}
		absences = append(absences, abs)
	}

	return absences, nil
}
