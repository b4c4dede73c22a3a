package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	Email            *string
	GradeID          *string
	GradeName        *string
	DepartmentID     *string
	DepartmentName   *string
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
)

// BasicSalary rows are append-only; the current salary is the most recently
// inserted row.
type BasicSalary struct {
	ID         string
	EmployeeID string
	Amount     decimal.Decimal
	CreatedAt  time.Time
	CreatedBy  *string
}
