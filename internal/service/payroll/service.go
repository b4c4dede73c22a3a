package payroll

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/grade"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/metrics"
)

type PayrollServiceImpl struct {
	tx           database.Transactor
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	gradeRepo    grade.GradeRepository
	recorder     audit.Recorder
	renderer     payroll.PayslipRenderer
	metrics      *metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	gradeRepo grade.GradeRepository,
	recorder audit.Recorder,
	renderer payroll.PayslipRenderer,
	m *metrics.Metrics,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:           tx,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		gradeRepo:    gradeRepo,
		recorder:     recorder,
		renderer:     renderer,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

func actorRef(actor auth.Actor) *string {
	id := actor.ID
	return &id
}
