package payroll

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/period"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== OVERTIME RULES ==========

func (s *PayrollServiceImpl) GetOvertimeRule(ctx context.Context, gradeID string) (payroll.OvertimeRuleResponse, error) {
	rule, err := s.payrollRepo.GetOvertimeRule(ctx, gradeID)
	if err != nil {
		return payroll.OvertimeRuleResponse{}, err
	}
	return payroll.NewOvertimeRuleResponse(rule), nil
}

// UpsertOvertimeRule keeps exactly one rule per grade; a second call for the
// same grade replaces rate and cap.
func (s *PayrollServiceImpl) UpsertOvertimeRule(ctx context.Context, req payroll.UpsertOvertimeRuleRequest) (payroll.OvertimeRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.OvertimeRuleResponse{}, err
	}

	actor := auth.ActorOrSystem(ctx)

	var (
		before any
		saved  payroll.OvertimeRule
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.gradeRepo.GetByID(ctx, req.GradeID); err != nil {
			return err
		}

		existing, err := s.payrollRepo.GetOvertimeRule(ctx, req.GradeID)
		switch {
		case err == nil:
			before = payroll.NewOvertimeRuleResponse(existing)
		case !errors.Is(err, payroll.ErrOvertimeRuleNotFound):
			return err
		}

		saved, err = s.payrollRepo.UpsertOvertimeRule(ctx, payroll.OvertimeRule{
			GradeID:  req.GradeID,
			Rate:     *req.Rate,
			MaxHours: *req.MaxHours,
		})
		return err
	})
	if err != nil {
		s.recorder.Record(ctx, audit.Failure(actor, audit.ActionUpsertOvertimeRule, "overtime_rules", req.GradeID, err))
		return payroll.OvertimeRuleResponse{}, err
	}

	resp := payroll.NewOvertimeRuleResponse(saved)
	s.recorder.Record(ctx, audit.Success(actor, audit.ActionUpsertOvertimeRule, "overtime_rules", saved.ID, before, resp))
	return resp, nil
}

func (s *PayrollServiceImpl) ListOvertimeRules(ctx context.Context) ([]payroll.OvertimeRuleResponse, error) {
	rules, err := s.payrollRepo.ListOvertimeRules(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.OvertimeRuleResponse, 0, len(rules))
	for _, r := range rules {
		responses = append(responses, payroll.NewOvertimeRuleResponse(r))
	}
	return responses, nil
}

// ========== OVERTIME ADJUSTMENTS ==========

// ResolveRateForAdjustment decides the rate an adjustment is stored with. An
// explicit rate is used as given and skips the cap; otherwise the grade rule
// supplies the rate and hours must not exceed its cap.
func (s *PayrollServiceImpl) ResolveRateForAdjustment(ctx context.Context, employeeID string, gradeID *string, rate *decimal.Decimal, hours decimal.Decimal) (payroll.RateResolution, error) {
	check := payroll.CreateOvertimeAdjustmentRequest{EmployeeID: employeeID, GradeID: gradeID, Hours: hours, Rate: rate}
	if err := check.Validate(); err != nil {
		return payroll.RateResolution{}, err
	}

	if rate != nil {
		return payroll.RateResolution{Rate: *rate, GradeID: gradeID, Source: payroll.RateSourceExplicit}, nil
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.RateResolution{}, err
	}
	return s.resolveRate(ctx, emp, gradeID, nil, hours)
}

func (s *PayrollServiceImpl) resolveRate(ctx context.Context, emp employee.Employee, gradeID *string, rate *decimal.Decimal, hours decimal.Decimal) (payroll.RateResolution, error) {
	if rate != nil {
		return payroll.RateResolution{Rate: *rate, GradeID: gradeID, Source: payroll.RateSourceExplicit}, nil
	}

	if gradeID == nil {
		gradeID = emp.GradeID
	}
	if gradeID == nil {
		return payroll.RateResolution{}, payroll.ErrEmployeeHasNoGrade
	}

	rule, err := s.payrollRepo.GetOvertimeRule(ctx, *gradeID)
	if err != nil {
		return payroll.RateResolution{}, err
	}

	if hours.GreaterThan(rule.MaxHours) {
		return payroll.RateResolution{}, &payroll.CapExceededError{
			GradeID:  rule.GradeID,
			Hours:    hours,
			MaxHours: rule.MaxHours,
		}
	}

	return payroll.RateResolution{
		Rate:    rule.Rate,
		GradeID: gradeID,
		Source:  payroll.RateSourceRule,
		Rule:    &rule,
	}, nil
}

// CreateOvertimeAdjustment freezes the resolved rate on the stored row; later
// rule changes do not reprice it.
func (s *PayrollServiceImpl) CreateOvertimeAdjustment(ctx context.Context, req payroll.CreateOvertimeAdjustmentRequest) (payroll.OvertimeAdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.OvertimeAdjustmentResponse{}, err
	}

	actor := auth.ActorOrSystem(ctx)

	effective := period.Date(s.now())
	if req.EffectiveDate != nil {
		effective, _ = validator.IsValidDate(*req.EffectiveDate)
	}

	var (
		created    payroll.OvertimeAdjustment
		resolution payroll.RateResolution
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		resolution, err = s.resolveRate(ctx, emp, req.GradeID, req.Rate, req.Hours)
		if err != nil {
			return err
		}

		created, err = s.payrollRepo.CreateOvertimeAdjustment(ctx, payroll.OvertimeAdjustment{
			EmployeeID:    emp.ID,
			EmployeeName:  &emp.FullName,
			GradeID:       resolution.GradeID,
			Hours:         req.Hours,
			Rate:          resolution.Rate,
			Reason:        req.Reason,
			EffectiveDate: effective,
			CreatedBy:     actorRef(actor),
		})
		return err
	})
	if err != nil {
		s.recorder.Record(ctx, audit.Failure(actor, audit.ActionCreateOvertimeAdjustment, "overtime_adjustments", req.EmployeeID, err))
		return payroll.OvertimeAdjustmentResponse{}, err
	}

	resp := payroll.NewOvertimeAdjustmentResponse(created)
	resp.RateSource = resolution.Source
	s.recorder.Record(ctx, audit.Success(actor, audit.ActionCreateOvertimeAdjustment, "overtime_adjustments", created.ID, nil, resp))
	return resp, nil
}

func (s *PayrollServiceImpl) ListOvertimeAdjustments(ctx context.Context, employeeID *string) ([]payroll.OvertimeAdjustmentResponse, error) {
	filter := payroll.RecordFilter{EmployeeID: employeeID}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	adjustments, err := s.payrollRepo.ListOvertimeAdjustments(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.OvertimeAdjustmentResponse, 0, len(adjustments))
	for _, a := range adjustments {
		responses = append(responses, payroll.NewOvertimeAdjustmentResponse(a))
	}
	return responses, nil
}
