package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/period"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// prepareBatch fills defaults, validates the request and resolves its window.
func (s *PayrollServiceImpl) prepareBatch(req *payroll.BatchRequest) (period.Window, error) {
	if req.PeriodYear == 0 {
		req.PeriodYear = s.now().UTC().Year()
	}
	if err := req.Validate(); err != nil {
		return period.Window{}, err
	}
	return period.New(req.PeriodMonth, req.PeriodYear)
}

// resolveCohort returns the target employees. Explicit ids must all exist;
// otherwise active employees matching the filter are used.
func (s *PayrollServiceImpl) resolveCohort(ctx context.Context, req payroll.BatchRequest) ([]employee.Employee, error) {
	if len(req.EmployeeIDs) > 0 {
		ids := dedupe(req.EmployeeIDs)

		found, err := s.employeeRepo.ExistingIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if missing := difference(ids, found); len(missing) > 0 {
			return nil, fmt.Errorf("%w: %s", payroll.ErrEmployeeNotFound, strings.Join(missing, ", "))
		}

		return s.employeeRepo.List(ctx, employee.EmployeeFilter{EmployeeIDs: ids})
	}

	var filter employee.EmployeeFilter
	if req.Filter != nil {
		filter = *req.Filter
	}
	return s.employeeRepo.List(ctx, filter.ActiveOnly())
}

// computeBatchLines prices the batch per employee. Each line is rounded to two
// decimals on its own; totals are sums of rounded lines.
func (s *PayrollServiceImpl) computeBatchLines(ctx context.Context, req payroll.BatchRequest) ([]payroll.BatchLine, error) {
	cohort, err := s.resolveCohort(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(cohort) == 0 {
		return nil, validator.ValidationErrors{{Field: "employee_ids", Message: "no employees matched the batch target"}}
	}

	ids := make([]string, 0, len(cohort))
	for _, e := range cohort {
		ids = append(ids, e.ID)
	}
	basics, err := s.employeeRepo.CurrentBasicSalaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]payroll.BatchLine, 0, len(cohort))
	for _, e := range cohort {
		basic := basics[e.ID]

		var amount decimal.Decimal
		switch req.Mode {
		case payroll.ModePercent:
			amount = req.Percent.Div(hundred).Mul(basic)
		default:
			amount = *req.Amount
		}

		lines = append(lines, payroll.BatchLine{
			EmployeeID:   e.ID,
			EmployeeCode: e.EmployeeCode,
			EmployeeName: e.FullName,
			Basic:        basic,
			Amount:       amount.Round(2),
		})
	}
	return lines, nil
}

func sumLines(lines []payroll.BatchLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

// PreviewCompensation prices a batch without writing anything.
func (s *PayrollServiceImpl) PreviewCompensation(ctx context.Context, req payroll.BatchRequest) (payroll.BatchPreview, error) {
	w, err := s.prepareBatch(&req)
	if err != nil {
		return payroll.BatchPreview{}, err
	}

	lines, err := s.computeBatchLines(ctx, req)
	if err != nil {
		return payroll.BatchPreview{}, err
	}

	return payroll.BatchPreview{
		Type:   req.Type,
		Mode:   req.Mode,
		Period: w.String(),
		Count:  len(lines),
		Total:  sumLines(lines),
		Lines:  lines,
	}, nil
}

// ApplyCompensation writes one record per cohort employee in a single
// transaction. Any failure leaves no record of the batch behind.
func (s *PayrollServiceImpl) ApplyCompensation(ctx context.Context, req payroll.BatchRequest) (payroll.BatchResult, error) {
	actor := auth.ActorOrSystem(ctx)

	result, entries, err := s.applyCompensation(ctx, actor, req)
	if err != nil {
		s.metrics.ObserveBatchApply(string(req.Type), "failure", 0)
		s.recorder.Record(ctx, audit.Failure(actor, audit.ActionApplyCompensation, batchTable(req.Type), "", err))
		return payroll.BatchResult{}, err
	}

	s.metrics.ObserveBatchApply(string(req.Type), "success", result.AppliedCount)
	s.logger.InfoContext(ctx, "compensation batch applied",
		slog.String("batch_id", result.BatchID),
		slog.String("type", string(result.Type)),
		slog.String("period", result.Period),
		slog.Int("count", result.AppliedCount),
		slog.String("total", result.Total.StringFixed(2)),
	)
	s.recorder.Record(ctx, entries...)
	return result, nil
}

func (s *PayrollServiceImpl) applyCompensation(ctx context.Context, actor auth.Actor, req payroll.BatchRequest) (payroll.BatchResult, []audit.Entry, error) {
	w, err := s.prepareBatch(&req)
	if err != nil {
		return payroll.BatchResult{}, nil, err
	}

	lines, err := s.computeBatchLines(ctx, req)
	if err != nil {
		return payroll.BatchResult{}, nil, err
	}

	batchID := uuid.NewString()
	table := batchTable(req.Type)
	entries := make([]audit.Entry, 0, len(lines))

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, line := range lines {
			id, after, err := s.insertBatchLine(ctx, actor, req, w, line)
			if err != nil {
				return fmt.Errorf("apply %s to employee %s: %w", req.Type, line.EmployeeID, err)
			}
			entry := audit.Success(actor, audit.ActionApplyCompensation, table, id, nil, after)
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return payroll.BatchResult{}, nil, err
	}

	return payroll.BatchResult{
		BatchID:      batchID,
		AppliedCount: len(lines),
		Type:         req.Type,
		Mode:         req.Mode,
		Period:       w.String(),
		Total:        sumLines(lines),
		Lines:        lines,
	}, entries, nil
}

func (s *PayrollServiceImpl) insertBatchLine(ctx context.Context, actor auth.Actor, req payroll.BatchRequest, w period.Window, line payroll.BatchLine) (string, any, error) {
	name := line.EmployeeName
	createdBy := actorRef(actor)

	if kind, ok := req.Type.BonusKind(); ok {
		b, err := s.payrollRepo.CreateBonus(ctx, payroll.Bonus{
			EmployeeID:    line.EmployeeID,
			EmployeeName:  &name,
			Amount:        line.Amount,
			Reason:        req.Note,
			Kind:          kind,
			EffectiveDate: w.Last,
			CreatedBy:     createdBy,
		})
		if err != nil {
			return "", nil, err
		}
		return b.ID, payroll.NewBonusResponse(b), nil
	}

	category := payroll.DefaultBatchCategory
	if req.Category != nil && !validator.IsEmpty(*req.Category) {
		category = strings.TrimSpace(*req.Category)
	}

	switch req.Type {
	case payroll.CompensationAllowance:
		description := fmt.Sprintf("%s allowance %s", category, w.String())
		if req.Note != nil && !validator.IsEmpty(*req.Note) {
			description = strings.TrimSpace(*req.Note)
		}
		first, last := w.First, w.Last
		a, err := s.payrollRepo.CreateAllowance(ctx, payroll.Allowance{
			EmployeeID:    line.EmployeeID,
			EmployeeName:  &name,
			Name:          description,
			Category:      category,
			Amount:        line.Amount,
			Frequency:     "Monthly",
			EffectiveFrom: &first,
			EffectiveTo:   &last,
			Status:        payroll.StatusActive,
			CreatedBy:     createdBy,
		})
		if err != nil {
			return "", nil, err
		}
		return a.ID, payroll.NewAllowanceResponse(a), nil

	case payroll.CompensationReimbursement:
		r, err := s.payrollRepo.CreateReimbursement(ctx, payroll.Reimbursement{
			EmployeeID:   line.EmployeeID,
			EmployeeName: &name,
			Amount:       line.Amount,
			Category:     category,
			Note:         req.Note,
			PeriodMonth:  w.Month,
			PeriodYear:   w.Year,
			CreatedBy:    createdBy,
		})
		if err != nil {
			return "", nil, err
		}
		return r.ID, payroll.NewReimbursementResponse(r), nil
	}

	return "", nil, fmt.Errorf("unsupported compensation type %q", req.Type)
}

func batchTable(t payroll.CompensationType) string {
	switch t {
	case payroll.CompensationAllowance:
		return "allowances"
	case payroll.CompensationReimbursement:
		return "reimbursements"
	default:
		return "bonuses"
	}
}

// dedupe canonicalises ids to lower-case hyphenated form so the same employee
// given in different case is counted once and matches stored ids.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if parsed, err := uuid.Parse(id); err == nil {
			id = parsed.String()
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func difference(want, have []string) []string {
	present := make(map[string]struct{}, len(have))
	for _, id := range have {
		present[id] = struct{}{}
	}
	var missing []string
	for _, id := range want {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
