package payroll

import (
	"context"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
)

const defaultAllowanceCategory = "General"

func parseDatePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := validator.IsValidDate(*s)
	if !ok {
		return nil
	}
	return &t
}

// ========== ALLOWANCES ==========

func (s *PayrollServiceImpl) CreateAllowance(ctx context.Context, req payroll.CreateAllowanceRequest) (payroll.AllowanceResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.AllowanceResponse{}, err
	}

	actor := auth.ActorOrSystem(ctx)

	allowance := payroll.Allowance{
		EmployeeID:    req.EmployeeID,
		Name:          strings.TrimSpace(req.Description),
		Category:      defaultAllowanceCategory,
		Amount:        req.Amount,
		Taxable:       req.Taxable,
		Frequency:     "Monthly",
		EffectiveFrom: parseDatePtr(req.EffectiveFrom),
		EffectiveTo:   parseDatePtr(req.EffectiveTo),
		Status:        payroll.StatusActive,
		CreatedBy:     actorRef(actor),
	}
	if req.Category != nil && !validator.IsEmpty(*req.Category) {
		allowance.Category = strings.TrimSpace(*req.Category)
	}
	if req.Frequency != nil && !validator.IsEmpty(*req.Frequency) {
		allowance.Frequency = strings.TrimSpace(*req.Frequency)
	}
	if req.Status != nil {
		allowance.Status = *req.Status
	}

	var created payroll.Allowance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		allowance.EmployeeName = &emp.FullName

		created, err = s.payrollRepo.CreateAllowance(ctx, allowance)
		return err
	})
	if err != nil {
		s.recorder.Record(ctx, audit.Failure(actor, audit.ActionCreateAllowance, "allowances", req.EmployeeID, err))
		return payroll.AllowanceResponse{}, err
	}

	resp := payroll.NewAllowanceResponse(created)
	s.recorder.Record(ctx, audit.Success(actor, audit.ActionCreateAllowance, "allowances", created.ID, nil, resp))
	return resp, nil
}

func (s *PayrollServiceImpl) ListAllowances(ctx context.Context, filter payroll.RecordFilter) ([]payroll.AllowanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	allowances, err := s.payrollRepo.ListAllowances(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.AllowanceResponse, 0, len(allowances))
	for _, a := range allowances {
		responses = append(responses, payroll.NewAllowanceResponse(a))
	}
	return responses, nil
}

// ========== BONUSES ==========

func (s *PayrollServiceImpl) CreateBonus(ctx context.Context, req payroll.CreateBonusRequest) (payroll.BonusResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BonusResponse{}, err
	}

	actor := auth.ActorOrSystem(ctx)

	kind := payroll.BonusKindBonus
	if req.Kind != nil {
		kind = *req.Kind
	}
	effective, _ := validator.IsValidDate(req.EffectiveDate)

	var created payroll.Bonus
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		created, err = s.payrollRepo.CreateBonus(ctx, payroll.Bonus{
			EmployeeID:    emp.ID,
			EmployeeName:  &emp.FullName,
			Amount:        req.Amount,
			Reason:        req.Reason,
			Kind:          kind,
			EffectiveDate: effective,
			CreatedBy:     actorRef(actor),
		})
		return err
	})
	if err != nil {
		s.recorder.Record(ctx, audit.Failure(actor, audit.ActionCreateBonus, "bonuses", req.EmployeeID, err))
		return payroll.BonusResponse{}, err
	}

	resp := payroll.NewBonusResponse(created)
	s.recorder.Record(ctx, audit.Success(actor, audit.ActionCreateBonus, "bonuses", created.ID, nil, resp))
	return resp, nil
}

func (s *PayrollServiceImpl) ListBonuses(ctx context.Context, filter payroll.RecordFilter) ([]payroll.BonusResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	bonuses, err := s.payrollRepo.ListBonuses(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.BonusResponse, 0, len(bonuses))
	for _, b := range bonuses {
		responses = append(responses, payroll.NewBonusResponse(b))
	}
	return responses, nil
}

// ========== DEDUCTIONS ==========

func (s *PayrollServiceImpl) CreateDeduction(ctx context.Context, req payroll.CreateDeductionRequest) (payroll.DeductionResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.DeductionResponse{}, err
	}

	actor := auth.ActorOrSystem(ctx)

	status := payroll.StatusActive
	if req.Status != nil {
		status = *req.Status
	}
	effective, _ := validator.IsValidDate(req.EffectiveDate)

	var created payroll.Deduction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		created, err = s.payrollRepo.CreateDeduction(ctx, payroll.Deduction{
			EmployeeID:    emp.ID,
			EmployeeName:  &emp.FullName,
			Name:          strings.TrimSpace(req.Name),
			Type:          req.Type,
			Basis:         req.Basis,
			Amount:        req.Amount,
			Percent:       req.Percent,
			Status:        status,
			EffectiveDate: effective,
			CreatedBy:     actorRef(actor),
		})
		return err
	})
	if err != nil {
		s.recorder.Record(ctx, audit.Failure(actor, audit.ActionCreateDeduction, "deductions", req.EmployeeID, err))
		return payroll.DeductionResponse{}, err
	}

	resp := payroll.NewDeductionResponse(created)
	s.recorder.Record(ctx, audit.Success(actor, audit.ActionCreateDeduction, "deductions", created.ID, nil, resp))
	return resp, nil
}

// UpdateDeductionStatus is how a deduction is stopped; rows are never deleted.
func (s *PayrollServiceImpl) UpdateDeductionStatus(ctx context.Context, req payroll.UpdateDeductionStatusRequest) (payroll.DeductionResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.DeductionResponse{}, err
	}

	actor := auth.ActorOrSystem(ctx)

	var before, after payroll.Deduction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		before, err = s.payrollRepo.GetDeduction(ctx, req.ID)
		if err != nil {
			return err
		}

		after, err = s.payrollRepo.UpdateDeductionStatus(ctx, req.ID, req.Status)
		after.EmployeeName = before.EmployeeName
		return err
	})
	if err != nil {
		s.recorder.Record(ctx, audit.Failure(actor, audit.ActionUpdateDeductionStatus, "deductions", req.ID, err))
		return payroll.DeductionResponse{}, err
	}

	resp := payroll.NewDeductionResponse(after)
	s.recorder.Record(ctx, audit.Success(actor, audit.ActionUpdateDeductionStatus, "deductions", req.ID,
		payroll.NewDeductionResponse(before), resp))
	return resp, nil
}

func (s *PayrollServiceImpl) ListDeductions(ctx context.Context, filter payroll.RecordFilter) ([]payroll.DeductionResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	deductions, err := s.payrollRepo.ListDeductions(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.DeductionResponse, 0, len(deductions))
	for _, d := range deductions {
		responses = append(responses, payroll.NewDeductionResponse(d))
	}
	return responses, nil
}

// ========== REIMBURSEMENTS ==========

func (s *PayrollServiceImpl) ListReimbursements(ctx context.Context, filter payroll.RecordFilter) ([]payroll.ReimbursementResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	reimbursements, err := s.payrollRepo.ListReimbursements(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.ReimbursementResponse, 0, len(reimbursements))
	for _, r := range reimbursements {
		responses = append(responses, payroll.NewReimbursementResponse(r))
	}
	return responses, nil
}
