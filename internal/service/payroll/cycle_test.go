package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrollService_RunForPeriod_AppendsSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := auth.WithActor(context.Background(), hrActor)
	f.addEmployee(t, "E1", "Ayu", nil, 1000)
	f.addEmployee(t, "E2", "Budi", nil, 2000)

	first, err := f.svc.RunForPeriod(ctx, payroll.RunPayrollRequest{Month: 1, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Count)
	assert.Equal(t, "2024-01", first.Period)

	f.svc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	second, err := f.svc.RunForPeriod(ctx, payroll.RunPayrollRequest{Month: 1, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Count)
	assert.True(t, second.GeneratedAt.After(first.GeneratedAt))

	require.Len(t, f.store.cycles, 4)
	byEmployee := map[string][]payroll.PayrollCycle{}
	for _, c := range f.store.cycles {
		byEmployee[c.EmployeeID] = append(byEmployee[c.EmployeeID], c)
		assert.Equal(t, hrActor.ID, *c.GeneratedBy)
	}
	for _, runs := range byEmployee {
		require.Len(t, runs, 2)
		assert.NotEqual(t, runs[0].ID, runs[1].ID)
		assert.NotEqual(t, runs[0].GeneratedAt, runs[1].GeneratedAt)
		assert.True(t, runs[0].Net.Equal(runs[1].Net))
		assert.True(t, runs[0].Gross.Equal(runs[1].Gross))
	}

	success := f.recorder.byStatus(audit.StatusSuccess)
	require.Len(t, success, 2)
	assert.Equal(t, audit.ActionRunPayroll, success[0].ActionType)
	assert.Contains(t, f.logs.String(), "payroll run completed")
}

func TestPayrollService_RunForPeriod_FailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, "E1", "Ayu", nil, 1000)
	broken := f.addEmployee(t, "E2", "Budi", nil, 2000)
	f.store.failInsertFor = broken

	_, err := f.svc.RunForPeriod(context.Background(), payroll.RunPayrollRequest{Month: 1, Year: 2024})

	require.ErrorIs(t, err, errInsertFailed)
	assert.Empty(t, f.store.cycles)
	failures := f.recorder.byStatus(audit.StatusFailure)
	require.Len(t, failures, 1)
	assert.Equal(t, auth.System.ID, failures[0].ActorID)
}

func TestPayrollService_ListCycles_Paginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, code := range []string{"E1", "E2", "E3"} {
		f.addEmployee(t, code, code, nil, 1000)
	}
	_, err := f.svc.RunForPeriod(ctx, payroll.RunPayrollRequest{Month: 1, Year: 2024})
	require.NoError(t, err)
	_, err = f.svc.RunForPeriod(ctx, payroll.RunPayrollRequest{Month: 2, Year: 2024})
	require.NoError(t, err)

	month := 2
	resp, err := f.svc.ListCycles(ctx, payroll.CycleFilter{Month: &month, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Len(t, resp.Cycles, 2)

	resp, err = f.svc.ListCycles(ctx, payroll.CycleFilter{Month: &month, Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Cycles, 1)
	assert.Equal(t, 2, resp.Cycles[0].PeriodMonth)

	resp, err = f.svc.ListCycles(ctx, payroll.CycleFilter{})
	require.NoError(t, err)
	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, int64(6), resp.TotalCount)
}

func TestPayrollService_GeneratePayslip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gradeID := f.addGrade(t, "G1")
	empID := f.addEmployee(t, "EMP-7", "Ayu", &gradeID, 2000)
	f.upsertRule(t, gradeID, "50", "20")

	_, err := f.svc.CreateAllowance(ctx, payroll.CreateAllowanceRequest{
		EmployeeID:  empID,
		Description: "Transport",
		Amount:      dec("120"),
	})
	require.NoError(t, err)
	_, err = f.svc.CreateOvertimeAdjustment(ctx, payroll.CreateOvertimeAdjustmentRequest{
		EmployeeID:    empID,
		Hours:         dec("2"),
		EffectiveDate: strPtr("2024-03-04"),
	})
	require.NoError(t, err)
	_, err = f.svc.CreateBonus(ctx, payroll.CreateBonusRequest{
		EmployeeID:    empID,
		Amount:        dec("60"),
		Reason:        strPtr("Referral"),
		EffectiveDate: "2024-03-20",
	})
	require.NoError(t, err)
	_, err = f.svc.CreateDeduction(ctx, payroll.CreateDeductionRequest{
		EmployeeID:    empID,
		Name:          "Pension",
		Type:          payroll.DeductionStatutory,
		Basis:         payroll.BasisPercent,
		Percent:       decPtr("5"),
		EffectiveDate: "2024-01-01",
	})
	require.NoError(t, err)

	doc, err := f.svc.GeneratePayslip(ctx, payroll.PayslipRequest{EmployeeID: empID, Month: 3, Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, "payslip-emp-7-2024-03.pdf", doc.Filename)
	assert.Equal(t, []byte("%PDF-fake"), doc.Content)
	assert.True(t, dec("2280").Equal(doc.Summary.Gross), "gross = %s", doc.Summary.Gross)
	assert.True(t, dec("2180").Equal(doc.Summary.Net), "net = %s", doc.Summary.Net)

	require.Len(t, f.renderer.rendered, 1)
	slip := f.renderer.rendered[0]
	assert.Equal(t, "2024-03", slip.Period)
	require.Len(t, slip.Allowances, 1)
	assert.Equal(t, "Transport", slip.Allowances[0].Label)
	require.Len(t, slip.Overtime, 1)
	assert.Equal(t, "2 h @ 50.00 (2024-03-04)", slip.Overtime[0].Label)
	require.Len(t, slip.Bonuses, 1)
	assert.Equal(t, "Bonus: Referral", slip.Bonuses[0].Label)
	require.Len(t, slip.Deductions, 1)
	assert.Equal(t, "Pension (5%)", slip.Deductions[0].Label)

	require.Len(t, f.store.cycles, 1)
	assert.True(t, doc.Summary.Net.Equal(f.store.cycles[0].Net))
}

func TestPayrollService_GeneratePayslip_RenderFailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	empID := f.addEmployee(t, "E1", "Ayu", nil, 1000)
	f.renderer.err = errors.New("font missing")

	_, err := f.svc.GeneratePayslip(context.Background(), payroll.PayslipRequest{EmployeeID: empID, Month: 3, Year: 2024})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render payslip")
	assert.Empty(t, f.store.cycles)
	assert.Len(t, f.recorder.byStatus(audit.StatusFailure), 1)
}

func TestPayrollService_GeneratePayslip_UnknownEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GeneratePayslip(context.Background(), payroll.PayslipRequest{
		EmployeeID: "00000000-0000-7000-8000-000000009999",
		Month:      3,
		Year:       2024,
	})

	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)
}
