package employee

import (
	"context"
	"errors"
	"strings"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/department"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/grade"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type EmployeeServiceImpl struct {
	tx             database.Transactor
	employeeRepo   employee.EmployeeRepository
	gradeRepo      grade.GradeRepository
	departmentRepo department.DepartmentRepository
	recorder       audit.Recorder
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	gradeRepo grade.GradeRepository,
	departmentRepo department.DepartmentRepository,
	recorder audit.Recorder,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:             tx,
		employeeRepo:   employeeRepo,
		gradeRepo:      gradeRepo,
		departmentRepo: departmentRepo,
		recorder:       recorder,
	}
}

func actorName(actor auth.Actor) *string {
	id := actor.ID
	return &id
}

// CreateEmployee stores the employee and, when given, its first basic salary
// in the same transaction.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	actor := auth.ActorOrSystem(ctx)

	var (
		created employee.Employee
		basic   *decimal.Decimal
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if req.GradeID != nil {
			if _, err := s.gradeRepo.GetByID(ctx, *req.GradeID); err != nil {
				return err
			}
		}
		if req.DepartmentID != nil {
			if _, err := s.departmentRepo.GetByID(ctx, *req.DepartmentID); err != nil {
				return err
			}
		}

		var err error
		created, err = s.employeeRepo.Create(ctx, employee.Employee{
			EmployeeCode:     strings.TrimSpace(req.EmployeeCode),
			FullName:         strings.TrimSpace(req.FullName),
			Email:            req.Email,
			GradeID:          req.GradeID,
			DepartmentID:     req.DepartmentID,
			EmploymentStatus: employee.EmploymentStatusActive,
		})
		if err != nil {
			return err
		}

		if req.InitialBasicSalary != nil {
			salary, err := s.employeeRepo.AddBasicSalary(ctx, employee.BasicSalary{
				EmployeeID: created.ID,
				Amount:     *req.InitialBasicSalary,
				CreatedBy:  actorName(actor),
			})
			if err != nil {
				return err
			}
			basic = &salary.Amount
		}
		return nil
	})
	if err != nil {
		s.recorder.Record(ctx, audit.Failure(actor, audit.ActionCreateEmployee, "employees", "", err))
		return employee.EmployeeResponse{}, err
	}

	resp := employee.NewEmployeeResponse(created, basic)
	s.recorder.Record(ctx, audit.Success(actor, audit.ActionCreateEmployee, "employees", created.ID, nil, resp))
	return resp, nil
}

func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	var basic *decimal.Decimal
	current, err := s.employeeRepo.GetCurrentBasicSalary(ctx, id)
	switch {
	case err == nil:
		basic = &current.Amount
	case !errors.Is(err, employee.ErrBasicSalaryNotFound):
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(e, basic), nil
}

func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}
	basics, err := s.employeeRepo.CurrentBasicSalaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		var basic *decimal.Decimal
		if amount, ok := basics[e.ID]; ok {
			basic = &amount
		}
		responses = append(responses, employee.NewEmployeeResponse(e, basic))
	}
	return responses, nil
}

// SetBasicSalary appends a new basic salary row. Earlier rows stay as history.
func (s *EmployeeServiceImpl) SetBasicSalary(ctx context.Context, req employee.SetBasicSalaryRequest) (employee.BasicSalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.BasicSalaryResponse{}, err
	}

	actor := auth.ActorOrSystem(ctx)

	var (
		before any
		added  employee.BasicSalary
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
			return err
		}

		current, err := s.employeeRepo.GetCurrentBasicSalary(ctx, req.EmployeeID)
		switch {
		case err == nil:
			before = employee.NewBasicSalaryResponse(current)
		case !errors.Is(err, employee.ErrBasicSalaryNotFound):
			return err
		}

		added, err = s.employeeRepo.AddBasicSalary(ctx, employee.BasicSalary{
			EmployeeID: req.EmployeeID,
			Amount:     req.Amount,
			CreatedBy:  actorName(actor),
		})
		return err
	})
	if err != nil {
		s.recorder.Record(ctx, audit.Failure(actor, audit.ActionSetBasicSalary, "basic_salaries", req.EmployeeID, err))
		return employee.BasicSalaryResponse{}, err
	}

	resp := employee.NewBasicSalaryResponse(added)
	s.recorder.Record(ctx, audit.Success(actor, audit.ActionSetBasicSalary, "basic_salaries", added.ID, before, resp))
	return resp, nil
}

func (s *EmployeeServiceImpl) GetBasicSalary(ctx context.Context, employeeID string) (employee.BasicSalaryHistoryResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return employee.BasicSalaryHistoryResponse{}, err
	}

	history, err := s.employeeRepo.ListBasicSalaryHistory(ctx, employeeID)
	if err != nil {
		return employee.BasicSalaryHistoryResponse{}, err
	}

	resp := employee.BasicSalaryHistoryResponse{
		EmployeeID: employeeID,
		History:    make([]employee.BasicSalaryResponse, 0, len(history)),
	}
	for _, b := range history {
		resp.History = append(resp.History, employee.NewBasicSalaryResponse(b))
	}
	// History is newest first.
	if len(resp.History) > 0 {
		current := resp.History[0]
		resp.Current = &current
	}
	return resp, nil
}
