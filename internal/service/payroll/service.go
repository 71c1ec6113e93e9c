package payroll

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/istmosoft/planilla-backend-go/internal/domain/deduction"
	"github.com/istmosoft/planilla-backend-go/internal/domain/employee"
	"github.com/istmosoft/planilla-backend-go/internal/domain/payroll"
	"github.com/istmosoft/planilla-backend-go/internal/domain/taxtable"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxCalculationWorkers bounds the per-employee fan-out of one run. Employees
// have no cross dependencies, so they compute in parallel; results are still
// committed as a single atomic write.
const maxCalculationWorkers = 8

type PayrollServiceImpl struct {
	payrollRepo   payroll.PayrollRepository
	employeeRepo  employee.EmployeeRepository
	deductionRepo deduction.DeductionRepository
	incomeTax     *IncomeTaxCalculator
	contributions *ContributionCalculator
	deductions    *DeductionAggregator
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	deductionRepo deduction.DeductionRepository,
	taxTables taxtable.Provider,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:   payrollRepo,
		employeeRepo:  employeeRepo,
		deductionRepo: deductionRepo,
		incomeTax:     NewIncomeTaxCalculator(taxTables),
		contributions: NewContributionCalculator(taxTables),
		deductions:    NewDeductionAggregator(),
	}
}

// ========== RUN LIFECYCLE ==========

func (s *PayrollServiceImpl) CreateRun(ctx context.Context, companyID string, req payroll.CreatePayrollRunRequest) (payroll.PayrollRunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	periodStart, _ := time.Parse("2006-01-02", req.PeriodStart)
	periodEnd, _ := time.Parse("2006-01-02", req.PeriodEnd)
	payDate, _ := time.Parse("2006-01-02", req.PayDate)

	header := payroll.PayrollHeader{
		ID:              uuid.NewString(),
		CompanyID:       companyID,
		PayrollNumber:   req.PayrollNumber,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		PayDate:         payDate,
		Status:          payroll.PayrollStatusDraft,
		GrossPay:        decimal.Zero,
		TotalDeductions: decimal.Zero,
		NetPay:          decimal.Zero,
		EmployerCost:    decimal.Zero,
	}

	created, err := s.payrollRepo.CreateRun(ctx, header)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	return payroll.MapRunResponse(created), nil
}

func (s *PayrollServiceImpl) GetRun(ctx context.Context, companyID string, id string) (payroll.PayrollRunResponse, error) {
	header, err := s.payrollRepo.GetRunByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	return payroll.MapRunResponse(header), nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context, companyID string, filter payroll.PayrollRunFilter) (payroll.ListPayrollRunResponse, error) {
	headers, totalCount, err := s.payrollRepo.ListRuns(ctx, companyID, filter)
	if err != nil {
		return payroll.ListPayrollRunResponse{}, err
	}

	data := make([]payroll.PayrollRunResponse, 0, len(headers))
	for _, h := range headers {
		data = append(data, payroll.MapRunResponse(h))
	}

	return payroll.ListPayrollRunResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) GetRunDetails(ctx context.Context, companyID string, id string) ([]payroll.PayrollDetailResponse, error) {
	if _, err := s.payrollRepo.GetRunByID(ctx, id, companyID); err != nil {
		return nil, err
	}

	details, err := s.payrollRepo.GetDetailsByRunID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}

	return payroll.MapDetailResponses(details), nil
}

// ========== CALCULATION ==========

// CalculateRun computes every active employee's breakdown and replaces the
// run's detail rows in one atomic write. Any per-employee failure aborts the
// whole run: a payroll run is one consistent snapshot or nothing.
func (s *PayrollServiceImpl) CalculateRun(ctx context.Context, companyID string, id string) (payroll.PayrollRunResponse, error) {
	header, err := s.payrollRepo.GetRunByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	if !header.Status.Calculable() {
		return payroll.PayrollRunResponse{}, fmt.Errorf(
			"calculate run %s in status %s: %w", header.PayrollNumber, header.Status, payroll.ErrInvalidStateTransition)
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID, header.PeriodEnd)
	if err != nil {
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to get active employees: %w", err)
	}

	details := make([]payroll.PayrollDetail, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCalculationWorkers)
	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			detail, err := s.calculateEmployee(gctx, header, emp)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			details[i] = detail
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	// Deterministic row order so recalculation with unchanged inputs is
	// byte-identical.
	sort.Slice(details, func(i, j int) bool {
		return details[i].EmployeeID < details[j].EmployeeID
	})

	header.GrossPay = decimal.Zero
	header.TotalDeductions = decimal.Zero
	header.NetPay = decimal.Zero
	header.EmployerCost = decimal.Zero
	for _, d := range details {
		header.GrossPay = header.GrossPay.Add(d.GrossPay)
		header.TotalDeductions = header.TotalDeductions.Add(d.TotalDeductions)
		header.NetPay = header.NetPay.Add(d.NetPay)
		header.EmployerCost = header.EmployerCost.Add(d.EmployerCost)
	}
	header.Status = payroll.PayrollStatusCalculated

	saved, err := s.payrollRepo.SaveCalculation(ctx, header, details)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	return payroll.MapRunResponse(saved), nil
}

func (s *PayrollServiceImpl) calculateEmployee(ctx context.Context, header payroll.PayrollHeader, emp employee.Employee) (payroll.PayrollDetail, error) {
	tax, err := s.incomeTax.Calculate(ctx, header.CompanyID, emp.GrossBasePay, emp.PayFrequency, emp.DependentCount, emp.IsSubjectToIncomeTax, header.PeriodEnd)
	if err != nil {
		return payroll.PayrollDetail{}, err
	}

	contrib, err := s.contributions.Calculate(ctx, emp.GrossBasePay, emp.RiskLevel, header.PeriodEnd)
	if err != nil {
		return payroll.PayrollDetail{}, err
	}

	recurring, err := s.deductionRepo.GetByEmployeePeriod(ctx, emp.ID, header.PeriodStart, header.PeriodEnd)
	if err != nil {
		return payroll.PayrollDetail{}, fmt.Errorf("failed to get deductions: %w", err)
	}
	installments, err := s.deductionRepo.GetLoanInstallments(ctx, emp.ID, header.PeriodStart, header.PeriodEnd)
	if err != nil {
		return payroll.PayrollDetail{}, fmt.Errorf("failed to get loan installments: %w", err)
	}
	advances, err := s.deductionRepo.GetApprovedAdvances(ctx, emp.ID, header.PeriodStart, header.PeriodEnd)
	if err != nil {
		return payroll.PayrollDetail{}, fmt.Errorf("failed to get advances: %w", err)
	}
	absences, err := s.deductionRepo.GetAbsenceDeductions(ctx, emp.ID, header.PeriodStart, header.PeriodEnd)
	if err != nil {
		return payroll.PayrollDetail{}, fmt.Errorf("failed to get absence deductions: %w", err)
	}

	lines, otherTotal, err := s.deductions.Aggregate(
		emp.ID, header.PeriodStart, header.PeriodEnd, emp.GrossBasePay,
		recurring, installments, advances, absences)
	if err != nil {
		return payroll.PayrollDetail{}, err
	}

	totalDeductions := tax.TaxAmount.
		Add(contrib.CSSEmployee).
		Add(contrib.SEEmployee).
		Add(otherTotal)

	return payroll.PayrollDetail{
		ID:              uuid.NewString(),
		PayrollHeaderID: header.ID,
		EmployeeID:      emp.ID,
		GrossPay:        emp.GrossBasePay,
		CSSEmployee:     contrib.CSSEmployee,
		CSSEmployer:     contrib.CSSEmployer,
		SEEmployee:      contrib.SEEmployee,
		SEEmployer:      contrib.SEEmployer,
		RiskPremium:     contrib.RiskPremium,
		IncomeTax:       tax.TaxAmount,
		OtherDeductions: lines,
		TotalDeductions: totalDeductions,
		NetPay:          emp.GrossBasePay.Sub(totalDeductions),
		EmployerCost:    emp.GrossBasePay.Add(contrib.CSSEmployer).Add(contrib.SEEmployer).Add(contrib.RiskPremium),
	}, nil
}

// ========== TRANSITIONS ==========

func (s *PayrollServiceImpl) ApproveRun(ctx context.Context, companyID string, id string, approvedBy string) (payroll.PayrollRunResponse, error) {
	header, err := s.payrollRepo.GetRunByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	if !header.Status.CanTransitionTo(payroll.PayrollStatusApproved) {
		return payroll.PayrollRunResponse{}, fmt.Errorf(
			"approve run %s in status %s: %w", header.PayrollNumber, header.Status, payroll.ErrInvalidStateTransition)
	}

	count, err := s.payrollRepo.CountDetails(ctx, id, companyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	if count == 0 {
		return payroll.PayrollRunResponse{}, fmt.Errorf("approve run %s: %w", header.PayrollNumber, payroll.ErrNoDetails)
	}

	updated, err := s.payrollRepo.UpdateStatus(ctx, id, companyID, header.Status, payroll.PayrollStatusApproved, &approvedBy)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	return payroll.MapRunResponse(updated), nil
}

func (s *PayrollServiceImpl) CancelRun(ctx context.Context, companyID string, id string) (payroll.PayrollRunResponse, error) {
	return s.transition(ctx, companyID, id, payroll.PayrollStatusCancelled)
}

func (s *PayrollServiceImpl) MarkRunPaid(ctx context.Context, companyID string, id string) (payroll.PayrollRunResponse, error) {
	return s.transition(ctx, companyID, id, payroll.PayrollStatusPaid)
}

func (s *PayrollServiceImpl) transition(ctx context.Context, companyID string, id string, next payroll.PayrollStatus) (payroll.PayrollRunResponse, error) {
	header, err := s.payrollRepo.GetRunByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	if !header.Status.CanTransitionTo(next) {
		return payroll.PayrollRunResponse{}, fmt.Errorf(
			"transition run %s from %s to %s: %w", header.PayrollNumber, header.Status, next, payroll.ErrInvalidStateTransition)
	}

	updated, err := s.payrollRepo.UpdateStatus(ctx, id, companyID, header.Status, next, nil)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	return payroll.MapRunResponse(updated), nil
}
