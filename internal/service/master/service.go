package master

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/department"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/grade"
)

type MasterService interface {
	// Grade operations
	CreateGrade(ctx context.Context, req grade.CreateGradeRequest) (grade.GradeResponse, error)
	GetGrade(ctx context.Context, id string) (grade.GradeResponse, error)
	ListGrades(ctx context.Context) ([]grade.GradeResponse, error)

	// Department operations
	CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	ListDepartments(ctx context.Context) ([]department.DepartmentResponse, error)
}

type masterServiceImpl struct {
	gradeRepo      grade.GradeRepository
	departmentRepo department.DepartmentRepository
	recorder       audit.Recorder
}

func NewMasterService(
	gradeRepo grade.GradeRepository,
	departmentRepo department.DepartmentRepository,
	recorder audit.Recorder,
) MasterService {
	return &masterServiceImpl{
		gradeRepo:      gradeRepo,
		departmentRepo: departmentRepo,
		recorder:       recorder,
	}
}

// ==================== GRADE OPERATIONS ====================

func (s *masterServiceImpl) CreateGrade(ctx context.Context, req grade.CreateGradeRequest) (grade.GradeResponse, error) {
	// Validate request
	if err := req.Validate(); err != nil {
		return grade.GradeResponse{}, err
	}

	actor := auth.ActorOrSystem(ctx)
	created, err := s.gradeRepo.Create(ctx, grade.Grade{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		s.recorder.Record(ctx, audit.Failure(actor, audit.ActionCreateGrade, "grades", "", err))
		return grade.GradeResponse{}, err
	}

	resp := grade.NewGradeResponse(created)
	s.recorder.Record(ctx, audit.Success(actor, audit.ActionCreateGrade, "grades", created.ID, nil, resp))
	return resp, nil
}

func (s *masterServiceImpl) GetGrade(ctx context.Context, id string) (grade.GradeResponse, error) {
	g, err := s.gradeRepo.GetByID(ctx, id)
	if err != nil {
		return grade.GradeResponse{}, err
	}
	return grade.NewGradeResponse(g), nil
}

func (s *masterServiceImpl) ListGrades(ctx context.Context) ([]grade.GradeResponse, error) {
	grades, err := s.gradeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]grade.GradeResponse, 0, len(grades))
	for _, g := range grades {
		responses = append(responses, grade.NewGradeResponse(g))
	}
	return responses, nil
}

// ==================== DEPARTMENT OPERATIONS ====================

func (s *masterServiceImpl) CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	actor := auth.ActorOrSystem(ctx)
	created, err := s.departmentRepo.Create(ctx, department.Department{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		s.recorder.Record(ctx, audit.Failure(actor, audit.ActionCreateDepartment, "departments", "", err))
		return department.DepartmentResponse{}, err
	}

	resp := department.DepartmentResponse{ID: created.ID, Name: created.Name}
	s.recorder.Record(ctx, audit.Success(actor, audit.ActionCreateDepartment, "departments", created.ID, nil, resp))
	return resp, nil
}

func (s *masterServiceImpl) ListDepartments(ctx context.Context) ([]department.DepartmentResponse, error) {
	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		responses = append(responses, department.DepartmentResponse{ID: d.ID, Name: d.Name})
	}
	return responses, nil
}
