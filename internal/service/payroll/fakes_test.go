package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/grade"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/logger"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// memStore backs every fake repository. Window reads deliberately return
// unfiltered rows so the fold's own window checks are exercised.
type memStore struct {
	seq            int
	employees      []employee.Employee
	basics         []employee.BasicSalary
	grades         []grade.Grade
	rules          []payroll.OvertimeRule
	adjustments    []payroll.OvertimeAdjustment
	allowances     []payroll.Allowance
	bonuses        []payroll.Bonus
	deductions     []payroll.Deduction
	reimbursements []payroll.Reimbursement
	cycles         []payroll.PayrollCycle

	// failInsertFor makes any record insert for that employee fail.
	failInsertFor string
}

func (s *memStore) nextID() string {
	s.seq++
	return fmt.Sprintf("0190abcd-ef01-7abc-8def-%012d", s.seq)
}

func (s *memStore) snapshot() memStore {
	return memStore{
		seq:            s.seq,
		employees:      slices.Clone(s.employees),
		basics:         slices.Clone(s.basics),
		grades:         slices.Clone(s.grades),
		rules:          slices.Clone(s.rules),
		adjustments:    slices.Clone(s.adjustments),
		allowances:     slices.Clone(s.allowances),
		bonuses:        slices.Clone(s.bonuses),
		deductions:     slices.Clone(s.deductions),
		reimbursements: slices.Clone(s.reimbursements),
		cycles:         slices.Clone(s.cycles),
		failInsertFor:  s.failInsertFor,
	}
}

var errInsertFailed = errors.New("insert failed")

func (s *memStore) checkInsert(employeeID string) error {
	if s.failInsertFor != "" && s.failInsertFor == employeeID {
		return errInsertFailed
	}
	return nil
}

type memTransactor struct {
	store *memStore
}

func (t *memTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		*t.store = snap
		return err
	}
	return nil
}

// ========== EMPLOYEES ==========

type memEmployeeRepo struct {
	store *memStore
}

func (r *memEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	e.ID = r.store.nextID()
	if e.EmploymentStatus == "" {
		e.EmploymentStatus = employee.EmploymentStatusActive
	}
	r.store.employees = append(r.store.employees, e)
	return e, nil
}

func (r *memEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range r.store.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *memEmployeeRepo) List(ctx context.Context, f employee.EmployeeFilter) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.store.employees {
		if f.Status != nil && e.EmploymentStatus != *f.Status {
			continue
		}
		if f.Search != nil {
			term := strings.ToLower(strings.TrimSpace(*f.Search))
			if !strings.Contains(strings.ToLower(e.FullName), term) && !strings.Contains(strings.ToLower(e.EmployeeCode), term) {
				continue
			}
		}
		if f.DepartmentID != nil && (e.DepartmentID == nil || *e.DepartmentID != *f.DepartmentID) {
			continue
		}
		if f.GradeID != nil && (e.GradeID == nil || *e.GradeID != *f.GradeID) {
			continue
		}
		if len(f.EmployeeIDs) > 0 && !slices.Contains(f.EmployeeIDs, e.ID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memEmployeeRepo) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	var found []string
	for _, e := range r.store.employees {
		if slices.Contains(ids, e.ID) {
			found = append(found, e.ID)
		}
	}
	return found, nil
}

func (r *memEmployeeRepo) AddBasicSalary(ctx context.Context, b employee.BasicSalary) (employee.BasicSalary, error) {
	b.ID = r.store.nextID()
	b.CreatedAt = time.Now()
	r.store.basics = append(r.store.basics, b)
	return b, nil
}

func (r *memEmployeeRepo) GetCurrentBasicSalary(ctx context.Context, employeeID string) (employee.BasicSalary, error) {
	for i := len(r.store.basics) - 1; i >= 0; i-- {
		if r.store.basics[i].EmployeeID == employeeID {
			return r.store.basics[i], nil
		}
	}
	return employee.BasicSalary{}, employee.ErrBasicSalaryNotFound
}

func (r *memEmployeeRepo) ListBasicSalaryHistory(ctx context.Context, employeeID string) ([]employee.BasicSalary, error) {
	var out []employee.BasicSalary
	for i := len(r.store.basics) - 1; i >= 0; i-- {
		if r.store.basics[i].EmployeeID == employeeID {
			out = append(out, r.store.basics[i])
		}
	}
	return out, nil
}

func (r *memEmployeeRepo) CurrentBasicSalaries(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, b := range r.store.basics {
		if slices.Contains(ids, b.EmployeeID) {
			out[b.EmployeeID] = b.Amount
		}
	}
	return out, nil
}

// ========== GRADES ==========

type memGradeRepo struct {
	store *memStore
}

func (r *memGradeRepo) Create(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	g.ID = r.store.nextID()
	r.store.grades = append(r.store.grades, g)
	return g, nil
}

func (r *memGradeRepo) GetByID(ctx context.Context, id string) (grade.Grade, error) {
	for _, g := range r.store.grades {
		if g.ID == id {
			return g, nil
		}
	}
	return grade.Grade{}, grade.ErrGradeNotFound
}

func (r *memGradeRepo) List(ctx context.Context) ([]grade.Grade, error) {
	return slices.Clone(r.store.grades), nil
}

// ========== PAYROLL ==========

type memPayrollRepo struct {
	store *memStore
}

func matchEmployee(filter payroll.RecordFilter, employeeID string) bool {
	return filter.EmployeeID == nil || *filter.EmployeeID == employeeID
}

func (r *memPayrollRepo) GetOvertimeRule(ctx context.Context, gradeID string) (payroll.OvertimeRule, error) {
	for _, rule := range r.store.rules {
		if rule.GradeID == gradeID {
			return rule, nil
		}
	}
	return payroll.OvertimeRule{}, payroll.ErrOvertimeRuleNotFound
}

func (r *memPayrollRepo) UpsertOvertimeRule(ctx context.Context, rule payroll.OvertimeRule) (payroll.OvertimeRule, error) {
	for i := range r.store.rules {
		if r.store.rules[i].GradeID == rule.GradeID {
			r.store.rules[i].Rate = rule.Rate
			r.store.rules[i].MaxHours = rule.MaxHours
			return r.store.rules[i], nil
		}
	}
	rule.ID = r.store.nextID()
	r.store.rules = append(r.store.rules, rule)
	return rule, nil
}

func (r *memPayrollRepo) ListOvertimeRules(ctx context.Context) ([]payroll.OvertimeRule, error) {
	return slices.Clone(r.store.rules), nil
}

func (r *memPayrollRepo) CreateOvertimeAdjustment(ctx context.Context, a payroll.OvertimeAdjustment) (payroll.OvertimeAdjustment, error) {
	if err := r.store.checkInsert(a.EmployeeID); err != nil {
		return payroll.OvertimeAdjustment{}, err
	}
	a.ID = r.store.nextID()
	r.store.adjustments = append(r.store.adjustments, a)
	return a, nil
}

func (r *memPayrollRepo) ListOvertimeAdjustments(ctx context.Context, filter payroll.RecordFilter) ([]payroll.OvertimeAdjustment, error) {
	var out []payroll.OvertimeAdjustment
	for _, a := range r.store.adjustments {
		if matchEmployee(filter, a.EmployeeID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memPayrollRepo) ListOvertimeInWindow(ctx context.Context, ids []string, w period.Window) ([]payroll.OvertimeAdjustment, error) {
	var out []payroll.OvertimeAdjustment
	for _, a := range r.store.adjustments {
		if slices.Contains(ids, a.EmployeeID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memPayrollRepo) CreateAllowance(ctx context.Context, a payroll.Allowance) (payroll.Allowance, error) {
	if err := r.store.checkInsert(a.EmployeeID); err != nil {
		return payroll.Allowance{}, err
	}
	a.ID = r.store.nextID()
	r.store.allowances = append(r.store.allowances, a)
	return a, nil
}

func (r *memPayrollRepo) ListAllowances(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Allowance, error) {
	var out []payroll.Allowance
	for _, a := range r.store.allowances {
		if matchEmployee(filter, a.EmployeeID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memPayrollRepo) ListAllowancesInWindow(ctx context.Context, ids []string, w period.Window) ([]payroll.Allowance, error) {
	var out []payroll.Allowance
	for _, a := range r.store.allowances {
		if slices.Contains(ids, a.EmployeeID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memPayrollRepo) CreateBonus(ctx context.Context, b payroll.Bonus) (payroll.Bonus, error) {
	if err := r.store.checkInsert(b.EmployeeID); err != nil {
		return payroll.Bonus{}, err
	}
	b.ID = r.store.nextID()
	r.store.bonuses = append(r.store.bonuses, b)
	return b, nil
}

func (r *memPayrollRepo) ListBonuses(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Bonus, error) {
	var out []payroll.Bonus
	for _, b := range r.store.bonuses {
		if matchEmployee(filter, b.EmployeeID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memPayrollRepo) ListBonusesInWindow(ctx context.Context, ids []string, w period.Window) ([]payroll.Bonus, error) {
	var out []payroll.Bonus
	for _, b := range r.store.bonuses {
		if slices.Contains(ids, b.EmployeeID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memPayrollRepo) CreateDeduction(ctx context.Context, d payroll.Deduction) (payroll.Deduction, error) {
	if err := r.store.checkInsert(d.EmployeeID); err != nil {
		return payroll.Deduction{}, err
	}
	d.ID = r.store.nextID()
	r.store.deductions = append(r.store.deductions, d)
	return d, nil
}

func (r *memPayrollRepo) GetDeduction(ctx context.Context, id string) (payroll.Deduction, error) {
	for _, d := range r.store.deductions {
		if d.ID == id {
			return d, nil
		}
	}
	return payroll.Deduction{}, payroll.ErrDeductionNotFound
}

func (r *memPayrollRepo) UpdateDeductionStatus(ctx context.Context, id string, status payroll.RecordStatus) (payroll.Deduction, error) {
	for i := range r.store.deductions {
		if r.store.deductions[i].ID == id {
			r.store.deductions[i].Status = status
			return r.store.deductions[i], nil
		}
	}
	return payroll.Deduction{}, payroll.ErrDeductionNotFound
}

func (r *memPayrollRepo) ListDeductions(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Deduction, error) {
	var out []payroll.Deduction
	for _, d := range r.store.deductions {
		if matchEmployee(filter, d.EmployeeID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memPayrollRepo) ListDeductionsInEffect(ctx context.Context, ids []string, asOf time.Time) ([]payroll.Deduction, error) {
	var out []payroll.Deduction
	for _, d := range r.store.deductions {
		if slices.Contains(ids, d.EmployeeID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memPayrollRepo) CreateReimbursement(ctx context.Context, rb payroll.Reimbursement) (payroll.Reimbursement, error) {
	if err := r.store.checkInsert(rb.EmployeeID); err != nil {
		return payroll.Reimbursement{}, err
	}
	rb.ID = r.store.nextID()
	r.store.reimbursements = append(r.store.reimbursements, rb)
	return rb, nil
}

func (r *memPayrollRepo) ListReimbursements(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Reimbursement, error) {
	var out []payroll.Reimbursement
	for _, rb := range r.store.reimbursements {
		if matchEmployee(filter, rb.EmployeeID) {
			out = append(out, rb)
		}
	}
	return out, nil
}

func (r *memPayrollRepo) CreateCycle(ctx context.Context, c payroll.PayrollCycle) (payroll.PayrollCycle, error) {
	if err := r.store.checkInsert(c.EmployeeID); err != nil {
		return payroll.PayrollCycle{}, err
	}
	c.ID = r.store.nextID()
	r.store.cycles = append(r.store.cycles, c)
	return c, nil
}

func (r *memPayrollRepo) ListCycles(ctx context.Context, filter payroll.CycleFilter) ([]payroll.PayrollCycle, int64, error) {
	var matched []payroll.PayrollCycle
	for _, c := range r.store.cycles {
		if filter.Month != nil && c.PeriodMonth != *filter.Month {
			continue
		}
		if filter.Year != nil && c.PeriodYear != *filter.Year {
			continue
		}
		if filter.EmployeeID != nil && c.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.GeneratedBy != nil && (c.GeneratedBy == nil || *c.GeneratedBy != *filter.GeneratedBy) {
			continue
		}
		matched = append(matched, c)
	}
	start := min(filter.Offset(), len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], int64(len(matched)), nil
}

// ========== COLLABORATORS ==========

type fakeRecorder struct {
	entries []audit.Entry
}

func (r *fakeRecorder) Record(ctx context.Context, entries ...audit.Entry) {
	r.entries = append(r.entries, entries...)
}

func (r *fakeRecorder) byStatus(status audit.Status) []audit.Entry {
	var out []audit.Entry
	for _, e := range r.entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

type fakeRenderer struct {
	rendered []payroll.Payslip
	err      error
}

func (r *fakeRenderer) Render(ctx context.Context, slip payroll.Payslip) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.rendered = append(r.rendered, slip)
	return []byte("%PDF-fake"), nil
}

// ========== FIXTURE ==========

type fixture struct {
	store     *memStore
	svc       *PayrollServiceImpl
	employees *memEmployeeRepo
	grades    *memGradeRepo
	recorder  *fakeRecorder
	renderer  *fakeRenderer
	metrics   *metrics.Metrics
	logs      *bytes.Buffer
}

var fixedNow = time.Date(2024, time.February, 10, 8, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := &memStore{}
	f := &fixture{
		store:     store,
		employees: &memEmployeeRepo{store: store},
		grades:    &memGradeRepo{store: store},
		recorder:  &fakeRecorder{},
		renderer:  &fakeRenderer{},
		metrics:   metrics.New(),
		logs:      &bytes.Buffer{},
	}

	svc := NewPayrollService(
		&memTransactor{store: store},
		&memPayrollRepo{store: store},
		f.employees,
		f.grades,
		f.recorder,
		f.renderer,
		f.metrics,
		logger.NewWithWriter(f.logs, "debug", "test"),
	).(*PayrollServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	f.svc = svc

	return f
}

func (f *fixture) addGrade(t *testing.T, name string) string {
	t.Helper()
	g, err := f.grades.Create(context.Background(), grade.Grade{Name: name})
	if err != nil {
		t.Fatal(err)
	}
	return g.ID
}

func (f *fixture) addEmployee(t *testing.T, code, name string, gradeID *string, basics ...int64) string {
	t.Helper()
	ctx := context.Background()
	dept := "Engineering"
	e, err := f.employees.Create(ctx, employee.Employee{
		EmployeeCode:   code,
		FullName:       name,
		GradeID:        gradeID,
		DepartmentName: &dept,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range basics {
		if _, err := f.employees.AddBasicSalary(ctx, employee.BasicSalary{EmployeeID: e.ID, Amount: decimal.NewFromInt(b)}); err != nil {
			t.Fatal(err)
		}
	}
	return e.ID
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}
