package payroll

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/period"
)

// GeneratePayslip renders one employee's period summary with its itemised
// records and stores the summary as a payroll cycle snapshot.
func (s *PayrollServiceImpl) GeneratePayslip(ctx context.Context, req payroll.PayslipRequest) (payroll.PayslipDocument, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayslipDocument{}, err
	}

	actor := auth.ActorOrSystem(ctx)
	w, err := period.New(req.Month, req.Year)
	if err != nil {
		return payroll.PayslipDocument{}, err
	}

	doc, err := s.generatePayslip(ctx, actor, req.EmployeeID, w)
	if err != nil {
		s.recorder.Record(ctx, audit.Failure(actor, audit.ActionGeneratePayslip, "payroll_cycles", req.EmployeeID, err))
		return payroll.PayslipDocument{}, err
	}

	s.recorder.Record(ctx, audit.Success(actor, audit.ActionGeneratePayslip, "payroll_cycles", req.EmployeeID, nil, doc.Summary))
	return doc, nil
}

func (s *PayrollServiceImpl) generatePayslip(ctx context.Context, actor auth.Actor, employeeID string, w period.Window) (payroll.PayslipDocument, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.PayslipDocument{}, err
	}

	summaries, recs, err := s.summarize(ctx, w, []employee.Employee{emp})
	if err != nil {
		return payroll.PayslipDocument{}, err
	}
	summary := summaries[0]

	generatedAt := s.now().UTC()
	slip := payroll.Payslip{
		EmployeeName:  emp.FullName,
		EmployeeCode:  emp.EmployeeCode,
		EmployeeEmail: emp.Email,
		Department:    emp.DepartmentName,
		Period:        w.String(),
		Summary:       summary,
		GeneratedAt:   generatedAt,
	}
	itemise(&slip, w, recs.forEmployee(emp.ID))

	content, err := s.renderer.Render(ctx, slip)
	if err != nil {
		return payroll.PayslipDocument{}, fmt.Errorf("failed to render payslip: %w", err)
	}

	header := payroll.PayrollCycle{GeneratedAt: generatedAt, GeneratedBy: actorRef(actor)}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.payrollRepo.CreateCycle(ctx, snapshotOf(summary, w, header))
		return err
	})
	if err != nil {
		return payroll.PayslipDocument{}, err
	}
	s.metrics.ObservePayrollRun("payslip", 1)

	return payroll.PayslipDocument{
		Filename: fmt.Sprintf("payslip-%s-%s.pdf", strings.ToLower(emp.EmployeeCode), w.String()),
		Content:  content,
		Summary:  summary,
	}, nil
}

// itemise lists the records Fold counted, using the same window rules.
func itemise(slip *payroll.Payslip, w period.Window, in EmployeeRecords) {
	for _, a := range in.Allowances {
		if a.Status == payroll.StatusActive && w.Overlaps(a.EffectiveFrom, a.EffectiveTo) {
			slip.Allowances = append(slip.Allowances, payroll.PayslipLine{Label: a.Name, Amount: a.Amount})
		}
	}
	for _, o := range in.Overtime {
		if w.Contains(o.EffectiveDate) {
			label := fmt.Sprintf("%s h @ %s (%s)", o.Hours.String(), o.Rate.StringFixed(2), o.EffectiveDate.Format("2006-01-02"))
			slip.Overtime = append(slip.Overtime, payroll.PayslipLine{Label: label, Amount: o.Amount().Round(2)})
		}
	}
	for _, b := range in.Bonuses {
		if w.Contains(b.EffectiveDate) {
			label := string(b.Kind)
			if b.Reason != nil && *b.Reason != "" {
				label += ": " + *b.Reason
			}
			slip.Bonuses = append(slip.Bonuses, payroll.PayslipLine{Label: label, Amount: b.Amount})
		}
	}
	for _, d := range in.Deductions {
		if d.Status != payroll.StatusActive || !w.EndsOnOrAfter(d.EffectiveDate) {
			continue
		}
		amount, err := d.Resolve(in.Basic)
		if err != nil {
			continue
		}
		label := d.Name
		if d.Basis == payroll.BasisPercent {
			label = fmt.Sprintf("%s (%s%%)", d.Name, d.Percent.String())
		}
		slip.Deductions = append(slip.Deductions, payroll.PayslipLine{Label: label, Amount: amount})
	}
}
