package master

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/department"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/grade"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGradeRepo struct {
	grades []grade.Grade
}

func (r *stubGradeRepo) Create(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	for _, existing := range r.grades {
		if existing.Name == g.Name {
			return grade.Grade{}, grade.ErrGradeNameExists
		}
	}
	g.ID = "grade-" + g.Name
	r.grades = append(r.grades, g)
	return g, nil
}

func (r *stubGradeRepo) GetByID(ctx context.Context, id string) (grade.Grade, error) {
	for _, g := range r.grades {
		if g.ID == id {
			return g, nil
		}
	}
	return grade.Grade{}, grade.ErrGradeNotFound
}

func (r *stubGradeRepo) List(ctx context.Context) ([]grade.Grade, error) {
	return r.grades, nil
}

type stubDepartmentRepo struct {
	departments []department.Department
	err         error
}

func (r *stubDepartmentRepo) Create(ctx context.Context, d department.Department) (department.Department, error) {
	if r.err != nil {
		return department.Department{}, r.err
	}
	d.ID = "dept-" + d.Name
	r.departments = append(r.departments, d)
	return d, nil
}

func (r *stubDepartmentRepo) GetByID(ctx context.Context, id string) (department.Department, error) {
	return department.Department{}, department.ErrDepartmentNotFound
}

func (r *stubDepartmentRepo) List(ctx context.Context) ([]department.Department, error) {
	return r.departments, nil
}

type captureRecorder struct {
	entries []audit.Entry
}

func (r *captureRecorder) Record(ctx context.Context, entries ...audit.Entry) {
	r.entries = append(r.entries, entries...)
}

func TestMasterService_CreateGrade_Success(t *testing.T) {
	recorder := &captureRecorder{}
	svc := NewMasterService(&stubGradeRepo{}, &stubDepartmentRepo{}, recorder)

	created, err := svc.CreateGrade(context.Background(), grade.CreateGradeRequest{Name: "  Senior  "})

	require.NoError(t, err)
	assert.Equal(t, "Senior", created.Name)
	require.Len(t, recorder.entries, 1)
	assert.Equal(t, audit.StatusSuccess, recorder.entries[0].Status)
	assert.Equal(t, "grades", recorder.entries[0].TargetTable)

	got, err := svc.GetGrade(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestMasterService_CreateGrade_Duplicate(t *testing.T) {
	recorder := &captureRecorder{}
	svc := NewMasterService(&stubGradeRepo{}, &stubDepartmentRepo{}, recorder)

	_, err := svc.CreateGrade(context.Background(), grade.CreateGradeRequest{Name: "Junior"})
	require.NoError(t, err)
	_, err = svc.CreateGrade(context.Background(), grade.CreateGradeRequest{Name: "Junior"})

	assert.ErrorIs(t, err, grade.ErrGradeNameExists)
	require.Len(t, recorder.entries, 2)
	assert.Equal(t, audit.StatusFailure, recorder.entries[1].Status)
	assert.Equal(t, grade.ErrGradeNameExists.Error(), *recorder.entries[1].ErrorMessage)
}

func TestMasterService_CreateGrade_Validation(t *testing.T) {
	recorder := &captureRecorder{}
	svc := NewMasterService(&stubGradeRepo{}, &stubDepartmentRepo{}, recorder)

	_, err := svc.CreateGrade(context.Background(), grade.CreateGradeRequest{Name: " "})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "name is required", verrs.ToMap()["name"])
	assert.Empty(t, recorder.entries)
}

func TestMasterService_GetGrade_NotFound(t *testing.T) {
	svc := NewMasterService(&stubGradeRepo{}, &stubDepartmentRepo{}, &captureRecorder{})

	_, err := svc.GetGrade(context.Background(), "missing")

	assert.ErrorIs(t, err, grade.ErrGradeNotFound)
}

func TestMasterService_ListGrades_Empty(t *testing.T) {
	svc := NewMasterService(&stubGradeRepo{}, &stubDepartmentRepo{}, &captureRecorder{})

	grades, err := svc.ListGrades(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, grades)
	assert.Empty(t, grades)
}

func TestMasterService_CreateDepartment(t *testing.T) {
	recorder := &captureRecorder{}
	repo := &stubDepartmentRepo{}
	svc := NewMasterService(&stubGradeRepo{}, repo, recorder)

	created, err := svc.CreateDepartment(context.Background(), department.CreateDepartmentRequest{Name: "Finance"})
	require.NoError(t, err)
	assert.Equal(t, "Finance", created.Name)

	list, err := svc.ListDepartments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []department.DepartmentResponse{created}, list)

	repo.err = department.ErrDepartmentNameExists
	_, err = svc.CreateDepartment(context.Background(), department.CreateDepartmentRequest{Name: "Finance"})
	assert.ErrorIs(t, err, department.ErrDepartmentNameExists)
	assert.Equal(t, audit.StatusFailure, recorder.entries[len(recorder.entries)-1].Status)
}
