package payroll

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/grade"
	"github.com/shopspring/decimal"
)

var (
	ErrEmployeeNotFound     = employee.ErrEmployeeNotFound
	ErrDeductionNotFound    = errors.New("deduction not found")
	ErrOvertimeRuleNotFound = errors.New("overtime rule not found for grade, set a rule first")
	ErrGradeNotFound        = grade.ErrGradeNotFound
	ErrEmployeeHasNoGrade   = errors.New("employee has no grade and no grade_id was given")
	ErrCapExceeded          = errors.New("overtime hours exceed the grade cap")
	ErrMalformedDeduction   = errors.New("deduction basis does not match its amount fields")
)

// CapExceededError reports the cap an overtime request was rejected against.
type CapExceededError struct {
	GradeID  string
	Hours    decimal.Decimal
	MaxHours decimal.Decimal
}

func (e *CapExceededError) Error() string {
	return fmt.Sprintf("overtime hours %s exceed the grade cap of %s hours", e.Hours.String(), e.MaxHours.String())
}

func (e *CapExceededError) Unwrap() error {
	return ErrCapExceeded
}
