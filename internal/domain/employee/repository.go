package employee

import (
	"context"

	"github.com/shopspring/decimal"
)

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	// ExistingIDs returns the subset of ids that refer to stored employees.
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)

	AddBasicSalary(ctx context.Context, salary BasicSalary) (BasicSalary, error)
	GetCurrentBasicSalary(ctx context.Context, employeeID string) (BasicSalary, error)
	ListBasicSalaryHistory(ctx context.Context, employeeID string) ([]BasicSalary, error)
	// CurrentBasicSalaries maps employee id to its current basic salary.
	// Employees without a salary row are absent from the map.
	CurrentBasicSalaries(ctx context.Context, employeeIDs []string) (map[string]decimal.Decimal, error)
}
