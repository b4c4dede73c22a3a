package payroll

import (
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// EmployeeRecords is everything stored for one employee that may affect a
// period. Records outside the window are tolerated and ignored by Fold.
type EmployeeRecords struct {
	Basic      decimal.Decimal
	Allowances []payroll.Allowance
	Overtime   []payroll.OvertimeAdjustment
	Bonuses    []payroll.Bonus
	Deductions []payroll.Deduction
}

// Fold computes one employee's totals for w.
//
//	gross = basic + allowances + overtime + bonus
//	net   = gross - deductions
//
// Net may be negative. Malformed deductions contribute zero and are reported
// through skip when it is non-nil.
func Fold(w period.Window, in EmployeeRecords, skip func(payroll.Deduction, error)) payroll.Totals {
	t := payroll.Totals{
		Basic:           in.Basic,
		Allowances:      decimal.Zero,
		Overtime:        decimal.Zero,
		Bonus:           decimal.Zero,
		TotalDeductions: decimal.Zero,
	}

	for _, a := range in.Allowances {
		if a.Status != payroll.StatusActive || !w.Overlaps(a.EffectiveFrom, a.EffectiveTo) {
			continue
		}
		t.Allowances = t.Allowances.Add(a.Amount)
	}

	for _, o := range in.Overtime {
		if !w.Contains(o.EffectiveDate) {
			continue
		}
		t.Overtime = t.Overtime.Add(o.Amount().Round(2))
	}

	for _, b := range in.Bonuses {
		if !w.Contains(b.EffectiveDate) {
			continue
		}
		t.Bonus = t.Bonus.Add(b.Amount)
	}

	for _, d := range in.Deductions {
		if d.Status != payroll.StatusActive || !w.EndsOnOrAfter(d.EffectiveDate) {
			continue
		}
		amount, err := d.Resolve(in.Basic)
		if err != nil {
			if skip != nil {
				skip(d, err)
			}
			continue
		}
		t.TotalDeductions = t.TotalDeductions.Add(amount)
	}

	t.Gross = t.Basic.Add(t.Allowances).Add(t.Overtime).Add(t.Bonus)
	t.Net = t.Gross.Sub(t.TotalDeductions)
	return t
}
