package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// EmployeeFilter selects a cohort. Every set field narrows the result;
// EmployeeIDs, when non-empty, restricts to exactly those ids.
type EmployeeFilter struct {
	Search       *string           `json:"search,omitempty"`
	DepartmentID *string           `json:"department_id,omitempty"`
	GradeID      *string           `json:"grade_id,omitempty"`
	EmployeeIDs  []string          `json:"employee_ids,omitempty"`
	Status       *EmploymentStatus `json:"-"`
}

func (f EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.DepartmentID != nil && !validator.IsValidUUID(*f.DepartmentID) {
		errs = append(errs, validator.ValidationError{Field: "department_id", Message: "must be a valid UUID"})
	}
	if f.GradeID != nil && !validator.IsValidUUID(*f.GradeID) {
		errs = append(errs, validator.ValidationError{Field: "grade_id", Message: "must be a valid UUID"})
	}
	for _, id := range f.EmployeeIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must contain valid UUIDs"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ActiveOnly returns a copy of f restricted to active employees.
func (f EmployeeFilter) ActiveOnly() EmployeeFilter {
	active := EmploymentStatusActive
	f.Status = &active
	return f
}

type CreateEmployeeRequest struct {
	EmployeeCode       string           `json:"employee_code"`
	FullName           string           `json:"full_name"`
	Email              *string          `json:"email,omitempty"`
	GradeID            *string          `json:"grade_id,omitempty"`
	DepartmentID       *string          `json:"department_id,omitempty"`
	InitialBasicSalary *decimal.Decimal `json:"basic_salary,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code is required"})
	} else if len(r.EmployeeCode) > 50 {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code must not exceed 50 characters"})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name is required"})
	} else if len(r.FullName) > 150 {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name must not exceed 150 characters"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if r.GradeID != nil && !validator.IsValidUUID(*r.GradeID) {
		errs = append(errs, validator.ValidationError{Field: "grade_id", Message: "grade_id must be a valid UUID"})
	}
	if r.DepartmentID != nil && !validator.IsValidUUID(*r.DepartmentID) {
		errs = append(errs, validator.ValidationError{Field: "department_id", Message: "department_id must be a valid UUID"})
	}
	if r.InitialBasicSalary != nil && r.InitialBasicSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "basic_salary must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetBasicSalaryRequest struct {
	EmployeeID string          `json:"-"`
	Amount     decimal.Decimal `json:"amount"`
}

func (r *SetBasicSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID               string           `json:"id"`
	EmployeeCode     string           `json:"employee_code"`
	FullName         string           `json:"full_name"`
	Email            *string          `json:"email,omitempty"`
	GradeID          *string          `json:"grade_id,omitempty"`
	GradeName        *string          `json:"grade_name,omitempty"`
	DepartmentID     *string          `json:"department_id,omitempty"`
	DepartmentName   *string          `json:"department_name,omitempty"`
	EmploymentStatus EmploymentStatus `json:"employment_status"`
	BasicSalary      *decimal.Decimal `json:"basic_salary,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

type BasicSalaryResponse struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
	CreatedBy  *string         `json:"created_by,omitempty"`
}

type BasicSalaryHistoryResponse struct {
	EmployeeID string                `json:"employee_id"`
	Current    *BasicSalaryResponse  `json:"current"`
	History    []BasicSalaryResponse `json:"history"`
}

func NewEmployeeResponse(e Employee, basic *decimal.Decimal) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.ID,
		EmployeeCode:     e.EmployeeCode,
		FullName:         e.FullName,
		Email:            e.Email,
		GradeID:          e.GradeID,
		GradeName:        e.GradeName,
		DepartmentID:     e.DepartmentID,
		DepartmentName:   e.DepartmentName,
		EmploymentStatus: e.EmploymentStatus,
		BasicSalary:      basic,
		CreatedAt:        e.CreatedAt,
	}
}

func NewBasicSalaryResponse(b BasicSalary) BasicSalaryResponse {
	return BasicSalaryResponse{
		ID:         b.ID,
		EmployeeID: b.EmployeeID,
		Amount:     b.Amount,
		CreatedAt:  b.CreatedAt,
		CreatedBy:  b.CreatedBy,
	}
}
