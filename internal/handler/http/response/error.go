package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/department"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/grade"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/period"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var capErr *payroll.CapExceededError
	if errors.As(err, &capErr) {
		BadRequest(w, capErr.Error(), map[string]string{
			"hours":     capErr.Hours.String(),
			"max_hours": capErr.MaxHours.String(),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInsufficientRole):
		Forbidden(w, err.Error())

	case errors.Is(err, period.ErrInvalidPeriod):
		ValidationError(w, map[string]string{"period": err.Error()})

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, employee.ErrBasicSalaryNotFound):
		NotFound(w, "Basic salary not set for employee")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrInvalidEmploymentState):
		ValidationError(w, map[string]string{"employment_status": err.Error()})

	// Master data errors
	case errors.Is(err, grade.ErrGradeNotFound):
		NotFound(w, "Grade not found")
	case errors.Is(err, grade.ErrGradeNameExists):
		Conflict(w, "Grade name already exists")
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrDepartmentNameExists):
		Conflict(w, "Department name already exists")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrOvertimeRuleNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, payroll.ErrDeductionNotFound):
		NotFound(w, "Deduction not found")
	case errors.Is(err, payroll.ErrEmployeeHasNoGrade):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
