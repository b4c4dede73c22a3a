package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
)

// PayrollJobs closes the previous month automatically on a configured day.
type PayrollJobs struct {
	payrollService payroll.PayrollService
	runDay         int
	logger         *slog.Logger
	now            func() time.Time
}

// NewPayrollJobs returns nil when runDay is outside 1..28, which disables
// the auto run.
func NewPayrollJobs(payrollService payroll.PayrollService, runDay int, logger *slog.Logger) *PayrollJobs {
	if runDay < 1 || runDay > 28 {
		return nil
	}
	return &PayrollJobs{
		payrollService: payrollService,
		runDay:         runDay,
		logger:         logger,
		now:            time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("payroll_auto_run_previous_month", 1*time.Hour, j.RunPreviousMonth)
}

// RunPreviousMonth snapshots last month once. Later ticks see the system
// generated cycles and skip; payslip snapshots made by HR do not count.
func (j *PayrollJobs) RunPreviousMonth(ctx context.Context) error {
	today := j.now().UTC()
	if today.Day() != j.runDay {
		return nil
	}

	previous := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	month, year := int(previous.Month()), previous.Year()

	existing, err := j.payrollService.ListCycles(ctx, payroll.CycleFilter{
		Month:       &month,
		Year:        &year,
		GeneratedBy: &auth.System.ID,
		Limit:       1,
	})
	if err != nil {
		return err
	}
	if existing.TotalCount > 0 {
		return nil
	}

	result, err := j.payrollService.RunForPeriod(auth.WithActor(ctx, auth.System), payroll.RunPayrollRequest{Month: month, Year: year})
	if err != nil {
		return err
	}

	j.logger.Info("payroll auto run completed",
		slog.String("period", result.Period),
		slog.Int("count", result.Count),
	)
	return nil
}
