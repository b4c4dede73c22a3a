package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

type PayrollService interface {
	// Overtime rules
	GetOvertimeRule(ctx context.Context, gradeID string) (OvertimeRuleResponse, error)
	UpsertOvertimeRule(ctx context.Context, req UpsertOvertimeRuleRequest) (OvertimeRuleResponse, error)
	ListOvertimeRules(ctx context.Context) ([]OvertimeRuleResponse, error)

	// Overtime adjustments
	ResolveRateForAdjustment(ctx context.Context, employeeID string, gradeID *string, rate *decimal.Decimal, hours decimal.Decimal) (RateResolution, error)
	CreateOvertimeAdjustment(ctx context.Context, req CreateOvertimeAdjustmentRequest) (OvertimeAdjustmentResponse, error)
	ListOvertimeAdjustments(ctx context.Context, employeeID *string) ([]OvertimeAdjustmentResponse, error)

	// Compensation records
	CreateAllowance(ctx context.Context, req CreateAllowanceRequest) (AllowanceResponse, error)
	ListAllowances(ctx context.Context, filter RecordFilter) ([]AllowanceResponse, error)
	CreateBonus(ctx context.Context, req CreateBonusRequest) (BonusResponse, error)
	ListBonuses(ctx context.Context, filter RecordFilter) ([]BonusResponse, error)
	CreateDeduction(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error)
	UpdateDeductionStatus(ctx context.Context, req UpdateDeductionStatusRequest) (DeductionResponse, error)
	ListDeductions(ctx context.Context, filter RecordFilter) ([]DeductionResponse, error)
	ListReimbursements(ctx context.Context, filter RecordFilter) ([]ReimbursementResponse, error)

	// Aggregation
	Summarize(ctx context.Context, req SummaryRequest) ([]EmployeeSummary, error)
	ListEarnings(ctx context.Context, req EarningsRequest) ([]EarningsRow, error)

	// Compensation batches
	PreviewCompensation(ctx context.Context, req BatchRequest) (BatchPreview, error)
	ApplyCompensation(ctx context.Context, req BatchRequest) (BatchResult, error)

	// Payroll cycles
	RunForPeriod(ctx context.Context, req RunPayrollRequest) (RunPayrollResult, error)
	ListCycles(ctx context.Context, filter CycleFilter) (ListCyclesResponse, error)
	GeneratePayslip(ctx context.Context, req PayslipRequest) (PayslipDocument, error)
}
