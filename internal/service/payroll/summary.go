package payroll

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// periodRecords holds the per-family reads for one window, keyed by employee.
type periodRecords struct {
	basics     map[string]decimal.Decimal
	allowances map[string][]payroll.Allowance
	overtime   map[string][]payroll.OvertimeAdjustment
	bonuses    map[string][]payroll.Bonus
	deductions map[string][]payroll.Deduction
}

func (r *periodRecords) forEmployee(id string) EmployeeRecords {
	return EmployeeRecords{
		Basic:      r.basics[id],
		Allowances: r.allowances[id],
		Overtime:   r.overtime[id],
		Bonuses:    r.bonuses[id],
		Deductions: r.deductions[id],
	}
}

func (s *PayrollServiceImpl) loadPeriodRecords(ctx context.Context, w period.Window, ids []string) (*periodRecords, error) {
	recs := &periodRecords{
		allowances: make(map[string][]payroll.Allowance),
		overtime:   make(map[string][]payroll.OvertimeAdjustment),
		bonuses:    make(map[string][]payroll.Bonus),
		deductions: make(map[string][]payroll.Deduction),
	}

	var err error
	if recs.basics, err = s.employeeRepo.CurrentBasicSalaries(ctx, ids); err != nil {
		return nil, err
	}

	allowances, err := s.payrollRepo.ListAllowancesInWindow(ctx, ids, w)
	if err != nil {
		return nil, err
	}
	for _, a := range allowances {
		recs.allowances[a.EmployeeID] = append(recs.allowances[a.EmployeeID], a)
	}

	overtime, err := s.payrollRepo.ListOvertimeInWindow(ctx, ids, w)
	if err != nil {
		return nil, err
	}
	for _, o := range overtime {
		recs.overtime[o.EmployeeID] = append(recs.overtime[o.EmployeeID], o)
	}

	bonuses, err := s.payrollRepo.ListBonusesInWindow(ctx, ids, w)
	if err != nil {
		return nil, err
	}
	for _, b := range bonuses {
		recs.bonuses[b.EmployeeID] = append(recs.bonuses[b.EmployeeID], b)
	}

	deductions, err := s.payrollRepo.ListDeductionsInEffect(ctx, ids, w.Last)
	if err != nil {
		return nil, err
	}
	for _, d := range deductions {
		recs.deductions[d.EmployeeID] = append(recs.deductions[d.EmployeeID], d)
	}

	return recs, nil
}

// summarize folds every given employee, one row each, in input order.
func (s *PayrollServiceImpl) summarize(ctx context.Context, w period.Window, employees []employee.Employee) ([]payroll.EmployeeSummary, *periodRecords, error) {
	started := time.Now()

	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}

	recs, err := s.loadPeriodRecords(ctx, w, ids)
	if err != nil {
		return nil, nil, err
	}

	summaries := make([]payroll.EmployeeSummary, 0, len(employees))
	for _, e := range employees {
		skip := func(d payroll.Deduction, err error) {
			s.logger.WarnContext(ctx, "skipping malformed deduction",
				slog.String("deduction_id", d.ID),
				slog.String("employee_id", d.EmployeeID),
				slog.String("basis", string(d.Basis)),
				slog.String("period", w.String()),
				slog.String("error", err.Error()),
			)
			s.metrics.IncSkippedDeduction()
		}

		summaries = append(summaries, payroll.EmployeeSummary{
			EmployeeID:   e.ID,
			EmployeeCode: e.EmployeeCode,
			EmployeeName: e.FullName,
			Department:   e.DepartmentName,
			Totals:       Fold(w, recs.forEmployee(e.ID), skip),
		})
	}

	s.metrics.ObserveSummary(started, len(summaries))
	return summaries, recs, nil
}

// Summarize returns one row per active employee matching the filter, including
// employees with no records in the period.
func (s *PayrollServiceImpl) Summarize(ctx context.Context, req payroll.SummaryRequest) ([]payroll.EmployeeSummary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	w, err := period.New(req.Month, req.Year)
	if err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, req.Filter.ActiveOnly())
	if err != nil {
		return nil, err
	}

	summaries, _, err := s.summarize(ctx, w, employees)
	return summaries, err
}

// ListEarnings is the gross-side grid; without a period it covers the
// current month.
func (s *PayrollServiceImpl) ListEarnings(ctx context.Context, req payroll.EarningsRequest) ([]payroll.EarningsRow, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	w := period.Current(s.now())
	if req.Month != nil && req.Year != nil {
		var err error
		if w, err = period.New(*req.Month, *req.Year); err != nil {
			return nil, err
		}
	}

	employees, err := s.employeeRepo.List(ctx, req.Filter.ActiveOnly())
	if err != nil {
		return nil, err
	}

	summaries, _, err := s.summarize(ctx, w, employees)
	if err != nil {
		return nil, err
	}

	rows := make([]payroll.EarningsRow, 0, len(summaries))
	for _, sum := range summaries {
		row := payroll.EarningsRow{
			EmployeeID:   sum.EmployeeID,
			EmployeeCode: sum.EmployeeCode,
			Name:         sum.EmployeeName,
			BasicSalary:  sum.Basic,
			Allowances:   sum.Allowances,
			Overtime:     sum.Overtime,
			Bonus:        sum.Bonus,
			Gross:        sum.Gross,
		}
		if sum.Department != nil {
			row.Department = *sum.Department
		}
		rows = append(rows, row)
	}
	return rows, nil
}
