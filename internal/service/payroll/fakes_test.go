package payroll

import (
	"context"
	"sync"
	"time"

	"github.com/istmosoft/planilla-backend-go/internal/domain/deduction"
	"github.com/istmosoft/planilla-backend-go/internal/domain/employee"
	"github.com/istmosoft/planilla-backend-go/internal/domain/payroll"
	"github.com/istmosoft/planilla-backend-go/internal/domain/taxtable"
	"github.com/istmosoft/planilla-backend-go/internal/fixtures"
)

// ===== IN-MEMORY TEST DOUBLES =====

// fakeTaxTables serves fixed statutory tables, or errors when unset.
type fakeTaxTables struct {
	taxConfig     *taxtable.TaxConfig
	contribRates  *taxtable.ContributionRates
	taxConfigErr  error
	contribErr    error
	taxConfigHits int
}

func newPanamaTaxTables(companyID string) *fakeTaxTables {
	effectiveFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := fixtures.PanamaTaxConfig(companyID, effectiveFrom)
	cfg.ID = "tax-config-pa"
	rates := fixtures.PanamaContributionRates(effectiveFrom)
	rates.ID = "contrib-rates-pa"
	return &fakeTaxTables{taxConfig: &cfg, contribRates: &rates}
}

func (f *fakeTaxTables) GetTaxConfig(_ context.Context, _ string, _ time.Time) (taxtable.TaxConfig, error) {
	f.taxConfigHits++
	if f.taxConfigErr != nil {
		return taxtable.TaxConfig{}, f.taxConfigErr
	}
	if f.taxConfig == nil {
		return taxtable.TaxConfig{}, taxtable.ErrTaxConfigNotFound
	}
	return *f.taxConfig, nil
}

func (f *fakeTaxTables) GetContributionRates(_ context.Context, _ time.Time) (taxtable.ContributionRates, error) {
	if f.contribErr != nil {
		return taxtable.ContributionRates{}, f.contribErr
	}
	if f.contribRates == nil {
		return taxtable.ContributionRates{}, taxtable.ErrContributionRatesNotFound
	}
	return *f.contribRates, nil
}

// fakeEmployeeRepo returns a fixed employee list.
type fakeEmployeeRepo struct {
	employees []employee.Employee
	err       error
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(_ context.Context, companyID string, _ time.Time) ([]employee.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []employee.Employee
	for _, e := range f.employees {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeDeductionRepo serves per-employee record lists.
type fakeDeductionRepo struct {
	deductions   map[string][]deduction.Deduction
	installments map[string][]deduction.LoanInstallment
	advances     map[string][]deduction.Advance
	absences     map[string][]deduction.AbsenceDeduction
	err          error
}

func newFakeDeductionRepo() *fakeDeductionRepo {
	return &fakeDeductionRepo{
		deductions:   map[string][]deduction.Deduction{},
		installments: map[string][]deduction.LoanInstallment{},
		advances:     map[string][]deduction.Advance{},
		absences:     map[string][]deduction.AbsenceDeduction{},
	}
}

func (f *fakeDeductionRepo) GetByEmployeePeriod(_ context.Context, employeeID string, _, _ time.Time) ([]deduction.Deduction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.deductions[employeeID], nil
}

func (f *fakeDeductionRepo) GetLoanInstallments(_ context.Context, employeeID string, _, _ time.Time) ([]deduction.LoanInstallment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.installments[employeeID], nil
}

func (f *fakeDeductionRepo) GetApprovedAdvances(_ context.Context, employeeID string, _, _ time.Time) ([]deduction.Advance, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.advances[employeeID], nil
}

func (f *fakeDeductionRepo) GetAbsenceDeductions(_ context.Context, employeeID string, _, _ time.Time) ([]deduction.AbsenceDeduction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.absences[employeeID], nil
}

// fakePayrollRepo keeps headers and details in memory. It mirrors the SQL
// repository's guarantees: SaveCalculation replaces details atomically and
// re-checks the status, UpdateStatus only fires when the expected status still
// holds.
type fakePayrollRepo struct {
	mu      sync.Mutex
	headers map[string]payroll.PayrollHeader
	details map[string][]payroll.PayrollDetail
	numbers map[string]bool
	saveErr error
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		headers: map[string]payroll.PayrollHeader{},
		details: map[string][]payroll.PayrollDetail{},
		numbers: map[string]bool{},
	}
}

func (f *fakePayrollRepo) CreateRun(_ context.Context, header payroll.PayrollHeader) (payroll.PayrollHeader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := header.CompanyID + "/" + header.PayrollNumber
	if f.numbers[key] {
		return payroll.PayrollHeader{}, payroll.ErrPayrollNumberExists
	}
	now := time.Now()
	header.CreatedAt = now
	header.UpdatedAt = now
	f.numbers[key] = true
	f.headers[header.ID] = header
	return header, nil
}

func (f *fakePayrollRepo) GetRunByID(_ context.Context, id string, companyID string) (payroll.PayrollHeader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	header, ok := f.headers[id]
	if !ok || header.CompanyID != companyID {
		return payroll.PayrollHeader{}, payroll.ErrPayrollRunNotFound
	}
	return header, nil
}

func (f *fakePayrollRepo) ListRuns(_ context.Context, companyID string, filter payroll.PayrollRunFilter) ([]payroll.PayrollHeader, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.PayrollHeader
	for _, h := range f.headers {
		if h.CompanyID != companyID {
			continue
		}
		if filter.Status != nil && h.Status != *filter.Status {
			continue
		}
		if filter.Year != nil && h.PeriodStart.Year() != *filter.Year {
			continue
		}
		out = append(out, h)
	}
	return out, int64(len(out)), nil
}

func (f *fakePayrollRepo) SaveCalculation(_ context.Context, header payroll.PayrollHeader, details []payroll.PayrollDetail) (payroll.PayrollHeader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return payroll.PayrollHeader{}, f.saveErr
	}
	stored, ok := f.headers[header.ID]
	if !ok || stored.CompanyID != header.CompanyID {
		return payroll.PayrollHeader{}, payroll.ErrPayrollRunNotFound
	}
	if !stored.Status.Calculable() {
		return payroll.PayrollHeader{}, payroll.ErrInvalidStateTransition
	}
	header.UpdatedAt = time.Now()
	f.headers[header.ID] = header
	f.details[header.ID] = details
	return header, nil
}

func (f *fakePayrollRepo) UpdateStatus(_ context.Context, id string, companyID string, expected, next payroll.PayrollStatus, actor *string) (payroll.PayrollHeader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	header, ok := f.headers[id]
	if !ok || header.CompanyID != companyID {
		return payroll.PayrollHeader{}, payroll.ErrPayrollRunNotFound
	}
	if header.Status != expected {
		return payroll.PayrollHeader{}, payroll.ErrInvalidStateTransition
	}
	now := time.Now()
	header.Status = next
	header.UpdatedAt = now
	switch next {
	case payroll.PayrollStatusApproved:
		header.ApprovedAt = &now
		header.ApprovedBy = actor
	case payroll.PayrollStatusPaid:
		header.PaidAt = &now
	}
	f.headers[id] = header
	return header, nil
}

func (f *fakePayrollRepo) GetDetailsByRunID(_ context.Context, headerID string, companyID string) ([]payroll.PayrollDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	header, ok := f.headers[headerID]
	if !ok || header.CompanyID != companyID {
		return nil, payroll.ErrPayrollRunNotFound
	}
	return f.details[headerID], nil
}

func (f *fakePayrollRepo) CountDetails(_ context.Context, headerID string, companyID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	header, ok := f.headers[headerID]
	if !ok || header.CompanyID != companyID {
		return 0, payroll.ErrPayrollRunNotFound
	}
	return int64(len(f.details[headerID])), nil
}
