package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordStatus string

const (
	StatusActive   RecordStatus = "Active"
	StatusInactive RecordStatus = "Inactive"
)

// Allowance is interval-active: it applies to every period its
// [EffectiveFrom, EffectiveTo] range overlaps. A nil bound is open.
type Allowance struct {
	ID            string
	EmployeeID    string
	EmployeeName  *string
	Name          string
	Category      string
	Amount        decimal.Decimal
	Taxable       bool
	Frequency     string
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time
	Status        RecordStatus
	CreatedAt     time.Time
	CreatedBy     *string
}

// OvertimeRule is the hourly rate and monthly hour cap of one grade.
type OvertimeRule struct {
	ID        string
	GradeID   string
	GradeName *string
	Rate      decimal.Decimal
	MaxHours  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OvertimeAdjustment stores the rate that applied when it was created; later
// rule changes do not reprice it.
type OvertimeAdjustment struct {
	ID            string
	EmployeeID    string
	EmployeeName  *string
	GradeID       *string
	Hours         decimal.Decimal
	Rate          decimal.Decimal
	Reason        *string
	EffectiveDate time.Time
	CreatedAt     time.Time
	CreatedBy     *string
}

func (a OvertimeAdjustment) Amount() decimal.Decimal {
	return a.Hours.Mul(a.Rate)
}

type BonusKind string

const (
	BonusKindBonus      BonusKind = "Bonus"
	BonusKindArrears    BonusKind = "Arrears"
	BonusKindCorrection BonusKind = "Correction"
)

type Bonus struct {
	ID            string
	EmployeeID    string
	EmployeeName  *string
	Amount        decimal.Decimal
	Reason        *string
	Kind          BonusKind
	EffectiveDate time.Time
	CreatedAt     time.Time
	CreatedBy     *string
}

type DeductionBasis string

const (
	BasisFixed   DeductionBasis = "Fixed"
	BasisPercent DeductionBasis = "Percent"
)

type DeductionType string

const (
	DeductionTax       DeductionType = "Tax"
	DeductionStatutory DeductionType = "Statutory"
	DeductionInsurance DeductionType = "Insurance"
	DeductionLoan      DeductionType = "Loan"
	DeductionOther     DeductionType = "Other"
)

// Deduction applies from EffectiveDate onwards while Active. Percent basis
// deductions are priced against the basic salary current at evaluation.
type Deduction struct {
	ID            string
	EmployeeID    string
	EmployeeName  *string
	Name          string
	Type          DeductionType
	Basis         DeductionBasis
	Amount        *decimal.Decimal
	Percent       *decimal.Decimal
	Status        RecordStatus
	EffectiveDate time.Time
	CreatedAt     time.Time
	CreatedBy     *string
}

var hundred = decimal.NewFromInt(100)

// Resolve prices the deduction against basic. Malformed rows return
// ErrMalformedDeduction and must contribute nothing.
func (d Deduction) Resolve(basic decimal.Decimal) (decimal.Decimal, error) {
	switch d.Basis {
	case BasisPercent:
		if d.Percent == nil {
			return decimal.Zero, ErrMalformedDeduction
		}
		return d.Percent.Div(hundred).Mul(basic).Round(2), nil
	case BasisFixed:
		if d.Percent != nil || d.Amount == nil {
			return decimal.Zero, ErrMalformedDeduction
		}
		return *d.Amount, nil
	default:
		return decimal.Zero, ErrMalformedDeduction
	}
}

// Reimbursement is tagged with its period directly instead of a date range.
type Reimbursement struct {
	ID           string
	EmployeeID   string
	EmployeeName *string
	Amount       decimal.Decimal
	Category     string
	Note         *string
	PeriodMonth  int
	PeriodYear   int
	CreatedAt    time.Time
	CreatedBy    *string
}

// Totals is the folded result for one employee and one period.
type Totals struct {
	Basic           decimal.Decimal `json:"basic"`
	Allowances      decimal.Decimal `json:"allowances"`
	Overtime        decimal.Decimal `json:"overtime"`
	Bonus           decimal.Decimal `json:"bonus"`
	Gross           decimal.Decimal `json:"gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	Net             decimal.Decimal `json:"net"`
}

// PayrollCycle is an immutable snapshot. Re-running a period appends a new
// row instead of replacing the previous one.
type PayrollCycle struct {
	ID           string
	EmployeeID   string
	EmployeeName *string
	PeriodMonth  int
	PeriodYear   int
	Totals
	GeneratedAt time.Time
	GeneratedBy *string
}
