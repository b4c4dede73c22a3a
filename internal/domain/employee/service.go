package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)

	// SetBasicSalary appends a new basic salary row; history is kept.
	SetBasicSalary(ctx context.Context, req SetBasicSalaryRequest) (BasicSalaryResponse, error)
	GetBasicSalary(ctx context.Context, employeeID string) (BasicSalaryHistoryResponse, error)
}
