package employee

import "errors"

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrEmployeeCodeExists     = errors.New("employee code already exists")
	ErrBasicSalaryNotFound    = errors.New("basic salary not set for employee")
	ErrInvalidEmploymentState = errors.New("employment status must be active or inactive")
)
