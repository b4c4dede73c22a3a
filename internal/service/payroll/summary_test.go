package payroll

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrollService_Summarize_JanuaryScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gradeID := f.addGrade(t, "G1")
	empID := f.addEmployee(t, "E1", "Ayu", &gradeID, 2000)
	f.upsertRule(t, gradeID, "50", "20")

	_, err := f.svc.CreateAllowance(ctx, payroll.CreateAllowanceRequest{
		EmployeeID:    empID,
		Description:   "Housing",
		Amount:        dec("300"),
		EffectiveFrom: strPtr("2024-01-01"),
		EffectiveTo:   strPtr("2024-01-31"),
	})
	require.NoError(t, err)
	_, err = f.svc.CreateOvertimeAdjustment(ctx, payroll.CreateOvertimeAdjustmentRequest{
		EmployeeID:    empID,
		Hours:         dec("5"),
		EffectiveDate: strPtr("2024-01-15"),
	})
	require.NoError(t, err)
	_, err = f.svc.CreateDeduction(ctx, payroll.CreateDeductionRequest{
		EmployeeID:    empID,
		Name:          "Income tax",
		Type:          payroll.DeductionTax,
		Basis:         payroll.BasisFixed,
		Amount:        decPtr("100"),
		EffectiveDate: "2024-01-01",
	})
	require.NoError(t, err)

	summaries, err := f.svc.Summarize(ctx, payroll.SummaryRequest{Month: 1, Year: 2024})
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	got := summaries[0]
	assert.Equal(t, "E1", got.EmployeeCode)
	assert.Equal(t, "Engineering", *got.Department)
	assert.True(t, dec("2000").Equal(got.Basic))
	assert.True(t, dec("300").Equal(got.Allowances))
	assert.True(t, dec("250").Equal(got.Overtime))
	assert.True(t, got.Bonus.IsZero())
	assert.True(t, dec("2550").Equal(got.Gross), "gross = %s", got.Gross)
	assert.True(t, dec("100").Equal(got.TotalDeductions))
	assert.True(t, dec("2450").Equal(got.Net), "net = %s", got.Net)

	feb, err := f.svc.Summarize(ctx, payroll.SummaryRequest{Month: 2, Year: 2024})
	require.NoError(t, err)
	assert.True(t, dec("1900").Equal(feb[0].Net), "february net = %s", feb[0].Net)
}

func TestPayrollService_Summarize_PercentDeductionRepriced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	empID := f.addEmployee(t, "E1", "Ayu", nil, 800)

	_, err := f.svc.CreateDeduction(ctx, payroll.CreateDeductionRequest{
		EmployeeID:    empID,
		Name:          "Pension",
		Type:          payroll.DeductionStatutory,
		Basis:         payroll.BasisPercent,
		Percent:       decPtr("10"),
		EffectiveDate: "2024-01-01",
	})
	require.NoError(t, err)

	_, err = f.employees.AddBasicSalary(ctx, employee.BasicSalary{EmployeeID: empID, Amount: dec("1000")})
	require.NoError(t, err)

	summaries, err := f.svc.Summarize(ctx, payroll.SummaryRequest{Month: 3, Year: 2024})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, dec("100").Equal(summaries[0].TotalDeductions), "deductions = %s", summaries[0].TotalDeductions)
}

func TestPayrollService_Summarize_IncludesEmployeesWithoutRecords(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, "E1", "Ayu", nil, 1500)
	f.addEmployee(t, "E2", "Budi", nil)

	summaries, err := f.svc.Summarize(context.Background(), payroll.SummaryRequest{Month: 6, Year: 2024})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.True(t, dec("1500").Equal(summaries[0].Net))
	assert.True(t, summaries[1].Basic.IsZero())
	assert.True(t, summaries[1].Gross.IsZero())
	assert.True(t, summaries[1].Net.IsZero())
}

func TestPayrollService_Summarize_ExcludesInactiveEmployees(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, "E1", "Ayu", nil, 1500)
	inactive := f.addEmployee(t, "E2", "Budi", nil, 900)
	for i := range f.store.employees {
		if f.store.employees[i].ID == inactive {
			f.store.employees[i].EmploymentStatus = employee.EmploymentStatusInactive
		}
	}

	summaries, err := f.svc.Summarize(context.Background(), payroll.SummaryRequest{Month: 6, Year: 2024})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "E1", summaries[0].EmployeeCode)
}

func TestPayrollService_Summarize_MalformedDeductionLoggedAndCounted(t *testing.T) {
	f := newFixture(t)
	empID := f.addEmployee(t, "E1", "Ayu", nil, 1000)
	f.store.deductions = append(f.store.deductions, payroll.Deduction{
		ID:            "00000000-0000-7000-8000-00000000dead",
		EmployeeID:    empID,
		Basis:         payroll.BasisPercent,
		Status:        payroll.StatusActive,
		EffectiveDate: day(2024, 1, 1),
	})

	summaries, err := f.svc.Summarize(context.Background(), payroll.SummaryRequest{Month: 1, Year: 2024})
	require.NoError(t, err)

	assert.True(t, summaries[0].TotalDeductions.IsZero())
	assert.True(t, dec("1000").Equal(summaries[0].Net))
	assert.Contains(t, f.logs.String(), "skipping malformed deduction")
	assert.Contains(t, f.logs.String(), "00000000-0000-7000-8000-00000000dead")

	expected := `
# HELP payroll_deductions_skipped_total Malformed deductions that contributed zero to a summary.
# TYPE payroll_deductions_skipped_total counter
payroll_deductions_skipped_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(f.metrics.Registry(), strings.NewReader(expected), "payroll_deductions_skipped_total"))
}

func TestPayrollService_Summarize_InvalidPeriod(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Summarize(context.Background(), payroll.SummaryRequest{Month: 13, Year: 1800})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "month")
	assert.Contains(t, verrs.ToMap(), "year")
}

func TestPayrollService_ListEarnings_DefaultsToCurrentMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	empID := f.addEmployee(t, "E1", "Ayu", nil, 1000)

	_, err := f.svc.CreateBonus(ctx, payroll.CreateBonusRequest{
		EmployeeID:    empID,
		Amount:        dec("250"),
		EffectiveDate: "2024-02-05",
	})
	require.NoError(t, err)
	_, err = f.svc.CreateDeduction(ctx, payroll.CreateDeductionRequest{
		EmployeeID:    empID,
		Name:          "Loan",
		Type:          payroll.DeductionLoan,
		Basis:         payroll.BasisFixed,
		Amount:        decPtr("90"),
		EffectiveDate: "2024-01-01",
	})
	require.NoError(t, err)

	rows, err := f.svc.ListEarnings(ctx, payroll.EarningsRequest{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Engineering", rows[0].Department)
	assert.True(t, dec("250").Equal(rows[0].Bonus))
	assert.True(t, dec("1250").Equal(rows[0].Gross))

	month, year := 1, 2024
	rows, err = f.svc.ListEarnings(ctx, payroll.EarningsRequest{Month: &month, Year: &year})
	require.NoError(t, err)
	assert.True(t, rows[0].Bonus.IsZero())
}

func TestPayrollService_ListEarnings_MonthWithoutYear(t *testing.T) {
	f := newFixture(t)
	month := 4

	_, err := f.svc.ListEarnings(context.Background(), payroll.EarningsRequest{Month: &month})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "month")
}
