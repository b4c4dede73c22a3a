package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/period"
)

type runOutcome struct {
	Period      string    `json:"period"`
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generated_at"`
}

func snapshotOf(sum payroll.EmployeeSummary, w period.Window, generated payroll.PayrollCycle) payroll.PayrollCycle {
	c := generated
	c.EmployeeID = sum.EmployeeID
	name := sum.EmployeeName
	c.EmployeeName = &name
	c.PeriodMonth = w.Month
	c.PeriodYear = w.Year
	c.Totals = sum.Totals
	return c
}

// RunForPeriod snapshots the summary of every active employee. Runs are not
// deduplicated: running a period twice stores two sets of snapshots.
func (s *PayrollServiceImpl) RunForPeriod(ctx context.Context, req payroll.RunPayrollRequest) (payroll.RunPayrollResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunPayrollResult{}, err
	}

	actor := auth.ActorOrSystem(ctx)
	w, err := period.New(req.Month, req.Year)
	if err != nil {
		return payroll.RunPayrollResult{}, err
	}

	generatedAt := s.now().UTC()
	header := payroll.PayrollCycle{GeneratedAt: generatedAt, GeneratedBy: actorRef(actor)}

	var count int
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{}.ActiveOnly())
		if err != nil {
			return err
		}

		summaries, _, err := s.summarize(ctx, w, employees)
		if err != nil {
			return err
		}

		for _, sum := range summaries {
			if _, err := s.payrollRepo.CreateCycle(ctx, snapshotOf(sum, w, header)); err != nil {
				return fmt.Errorf("snapshot employee %s: %w", sum.EmployeeID, err)
			}
		}
		count = len(summaries)
		return nil
	})
	if err != nil {
		s.metrics.ObservePayrollRun("failure", 0)
		s.recorder.Record(ctx, audit.Failure(actor, audit.ActionRunPayroll, "payroll_cycles", w.String(), err))
		return payroll.RunPayrollResult{}, err
	}

	s.metrics.ObservePayrollRun("success", count)
	s.logger.InfoContext(ctx, "payroll run completed",
		slog.String("period", w.String()),
		slog.Int("snapshots", count),
	)

	result := payroll.RunPayrollResult{Count: count, Period: w.String(), GeneratedAt: generatedAt}
	s.recorder.Record(ctx, audit.Success(actor, audit.ActionRunPayroll, "payroll_cycles", w.String(), nil,
		runOutcome{Period: result.Period, Count: count, GeneratedAt: generatedAt}))
	return result, nil
}

func (s *PayrollServiceImpl) ListCycles(ctx context.Context, filter payroll.CycleFilter) (payroll.ListCyclesResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListCyclesResponse{}, err
	}

	cycles, total, err := s.payrollRepo.ListCycles(ctx, filter)
	if err != nil {
		return payroll.ListCyclesResponse{}, err
	}

	responses := make([]payroll.PayrollCycleResponse, 0, len(cycles))
	for _, c := range cycles {
		responses = append(responses, payroll.NewPayrollCycleResponse(c))
	}

	return payroll.ListCyclesResponse{
		Cycles:     responses,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}
