package payroll

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/pkg/period"
)

type PayrollRepository interface {
	// Overtime rules
	GetOvertimeRule(ctx context.Context, gradeID string) (OvertimeRule, error)
	UpsertOvertimeRule(ctx context.Context, rule OvertimeRule) (OvertimeRule, error)
	ListOvertimeRules(ctx context.Context) ([]OvertimeRule, error)

	// Overtime adjustments
	CreateOvertimeAdjustment(ctx context.Context, adjustment OvertimeAdjustment) (OvertimeAdjustment, error)
	ListOvertimeAdjustments(ctx context.Context, filter RecordFilter) ([]OvertimeAdjustment, error)
	ListOvertimeInWindow(ctx context.Context, employeeIDs []string, w period.Window) ([]OvertimeAdjustment, error)

	// Allowances
	CreateAllowance(ctx context.Context, allowance Allowance) (Allowance, error)
	ListAllowances(ctx context.Context, filter RecordFilter) ([]Allowance, error)
	ListAllowancesInWindow(ctx context.Context, employeeIDs []string, w period.Window) ([]Allowance, error)

	// Bonuses
	CreateBonus(ctx context.Context, bonus Bonus) (Bonus, error)
	ListBonuses(ctx context.Context, filter RecordFilter) ([]Bonus, error)
	ListBonusesInWindow(ctx context.Context, employeeIDs []string, w period.Window) ([]Bonus, error)

	// Deductions
	CreateDeduction(ctx context.Context, deduction Deduction) (Deduction, error)
	GetDeduction(ctx context.Context, id string) (Deduction, error)
	UpdateDeductionStatus(ctx context.Context, id string, status RecordStatus) (Deduction, error)
	ListDeductions(ctx context.Context, filter RecordFilter) ([]Deduction, error)
	// ListDeductionsInEffect returns Active deductions dated on or before asOf.
	ListDeductionsInEffect(ctx context.Context, employeeIDs []string, asOf time.Time) ([]Deduction, error)

	// Reimbursements
	CreateReimbursement(ctx context.Context, reimbursement Reimbursement) (Reimbursement, error)
	ListReimbursements(ctx context.Context, filter RecordFilter) ([]Reimbursement, error)

	// Payroll cycles
	CreateCycle(ctx context.Context, cycle PayrollCycle) (PayrollCycle, error)
	ListCycles(ctx context.Context, filter CycleFilter) ([]PayrollCycle, int64, error)
}

// PayslipRenderer turns a payslip into a printable document.
type PayslipRenderer interface {
	Render(ctx context.Context, slip Payslip) ([]byte, error)
}
