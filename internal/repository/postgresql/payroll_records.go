package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/period"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ========== ALLOWANCES ==========

const allowanceSelect = `
	SELECT a.id, a.employee_id, e.full_name, a.name, a.category, a.amount, a.taxable,
		   a.frequency, a.effective_from, a.effective_to, a.status, a.created_at, a.created_by
	FROM allowances a
	JOIN employees e ON e.id = a.employee_id
`

func scanAllowance(row pgx.Row) (payroll.Allowance, error) {
	var a payroll.Allowance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.EmployeeName, &a.Name, &a.Category, &a.Amount, &a.Taxable,
		&a.Frequency, &a.EffectiveFrom, &a.EffectiveTo, &a.Status, &a.CreatedAt, &a.CreatedBy,
	)
	return a, err
}

func (r *payrollRepository) queryAllowances(ctx context.Context, p *predicates) ([]payroll.Allowance, error) {
	q := GetQuerier(ctx, r.db)

	query := allowanceSelect + p.where() + " ORDER BY a.created_at DESC, a.id DESC"
	rows, err := q.Query(ctx, query, p.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowances: %w", err)
	}
	defer rows.Close()

	var allowances []payroll.Allowance
	for rows.Next() {
		a, err := scanAllowance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allowance: %w", err)
		}
		allowances = append(allowances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return allowances, nil
}

func (r *payrollRepository) CreateAllowance(ctx context.Context, allowance payroll.Allowance) (payroll.Allowance, error) {
	q := GetQuerier(ctx, r.db)

	status := allowance.Status
	if status == "" {
		status = payroll.StatusActive
	}
	frequency := allowance.Frequency
	if frequency == "" {
		frequency = "Monthly"
	}

	query := `
		INSERT INTO allowances (employee_id, name, category, amount, taxable, frequency,
			effective_from, effective_to, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, employee_id, name, category, amount, taxable, frequency,
			effective_from, effective_to, status, created_at, created_by
	`

	var a payroll.Allowance
	err := q.QueryRow(ctx, query,
		allowance.EmployeeID, allowance.Name, allowance.Category, allowance.Amount, allowance.Taxable, frequency,
		allowance.EffectiveFrom, allowance.EffectiveTo, string(status), allowance.CreatedBy,
	).Scan(
		&a.ID, &a.EmployeeID, &a.Name, &a.Category, &a.Amount, &a.Taxable, &a.Frequency,
		&a.EffectiveFrom, &a.EffectiveTo, &a.Status, &a.CreatedAt, &a.CreatedBy,
	)
	if err != nil {
		if violates(err, foreignKeyViolation, "allowances_employee_id_fkey") {
			return payroll.Allowance{}, payroll.ErrEmployeeNotFound
		}
		return payroll.Allowance{}, fmt.Errorf("failed to create allowance: %w", err)
	}
	a.EmployeeName = allowance.EmployeeName

	return a, nil
}

func (r *payrollRepository) ListAllowances(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Allowance, error) {
	p := &predicates{}
	if filter.EmployeeID != nil {
		p.add("a.employee_id = ?", *filter.EmployeeID)
	}
	if filter.Month != nil && filter.Year != nil {
		w, err := period.New(*filter.Month, *filter.Year)
		if err != nil {
			return nil, err
		}
		p.add("(a.effective_from IS NULL OR a.effective_from <= ?)", w.Last)
		p.add("(a.effective_to IS NULL OR a.effective_to >= ?)", w.First)
	}
	return r.queryAllowances(ctx, p)
}

func (r *payrollRepository) ListAllowancesInWindow(ctx context.Context, employeeIDs []string, w period.Window) ([]payroll.Allowance, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	p := &predicates{}
	p.add("a.employee_id = ANY(?::uuid[])", employeeIDs)
	p.add("a.status = ?", string(payroll.StatusActive))
	p.add("(a.effective_from IS NULL OR a.effective_from <= ?)", w.Last)
	p.add("(a.effective_to IS NULL OR a.effective_to >= ?)", w.First)
	return r.queryAllowances(ctx, p)
}

// ========== BONUSES ==========

const bonusSelect = `
	SELECT b.id, b.employee_id, e.full_name, b.amount, b.reason, b.kind,
		   b.effective_date, b.created_at, b.created_by
	FROM bonuses b
	JOIN employees e ON e.id = b.employee_id
`

func (r *payrollRepository) queryBonuses(ctx context.Context, p *predicates) ([]payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := bonusSelect + p.where() + " ORDER BY b.effective_date DESC, b.created_at DESC"
	rows, err := q.Query(ctx, query, p.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonuses: %w", err)
	}
	defer rows.Close()

	var bonuses []payroll.Bonus
	for rows.Next() {
		var b payroll.Bonus
		if err := rows.Scan(
			&b.ID, &b.EmployeeID, &b.EmployeeName, &b.Amount, &b.Reason, &b.Kind,
			&b.EffectiveDate, &b.CreatedAt, &b.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bonus: %w", err)
		}
		bonuses = append(bonuses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return bonuses, nil
}

func (r *payrollRepository) CreateBonus(ctx context.Context, bonus payroll.Bonus) (payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	kind := bonus.Kind
	if kind == "" {
		kind = payroll.BonusKindBonus
	}

	query := `
		INSERT INTO bonuses (employee_id, amount, reason, kind, effective_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, employee_id, amount, reason, kind, effective_date, created_at, created_by
	`

	var b payroll.Bonus
	err := q.QueryRow(ctx, query,
		bonus.EmployeeID, bonus.Amount, bonus.Reason, string(kind), bonus.EffectiveDate, bonus.CreatedBy,
	).Scan(
		&b.ID, &b.EmployeeID, &b.Amount, &b.Reason, &b.Kind, &b.EffectiveDate, &b.CreatedAt, &b.CreatedBy,
	)
	if err != nil {
		if violates(err, foreignKeyViolation, "bonuses_employee_id_fkey") {
			return payroll.Bonus{}, payroll.ErrEmployeeNotFound
		}
		return payroll.Bonus{}, fmt.Errorf("failed to create bonus: %w", err)
	}
	b.EmployeeName = bonus.EmployeeName

	return b, nil
}

func (r *payrollRepository) ListBonuses(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Bonus, error) {
	p := &predicates{}
	if filter.EmployeeID != nil {
		p.add("b.employee_id = ?", *filter.EmployeeID)
	}
	if err := periodPredicate(p, filter, "b.effective_date"); err != nil {
		return nil, err
	}
	return r.queryBonuses(ctx, p)
}

func (r *payrollRepository) ListBonusesInWindow(ctx context.Context, employeeIDs []string, w period.Window) ([]payroll.Bonus, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	p := &predicates{}
	p.add("b.employee_id = ANY(?::uuid[])", employeeIDs)
	p.add("b.effective_date BETWEEN ? AND ?", w.First, w.Last)
	return r.queryBonuses(ctx, p)
}

// ========== DEDUCTIONS ==========

const deductionSelect = `
	SELECT d.id, d.employee_id, e.full_name, d.name, d.type, d.basis, d.amount, d.percent,
		   d.status, d.effective_date, d.created_at, d.created_by
	FROM deductions d
	JOIN employees e ON e.id = d.employee_id
`

const deductionReturning = `
	RETURNING id, employee_id, name, type, basis, amount, percent,
		status, effective_date, created_at, created_by
`

func scanDeduction(row pgx.Row, withName bool) (payroll.Deduction, error) {
	var (
		d       payroll.Deduction
		amount  decimal.NullDecimal
		percent decimal.NullDecimal
	)
	dest := []any{&d.ID, &d.EmployeeID}
	if withName {
		dest = append(dest, &d.EmployeeName)
	}
	dest = append(dest, &d.Name, &d.Type, &d.Basis, &amount, &percent,
		&d.Status, &d.EffectiveDate, &d.CreatedAt, &d.CreatedBy)

	if err := row.Scan(dest...); err != nil {
		return payroll.Deduction{}, err
	}
	d.Amount = nullDecimalPtr(amount)
	d.Percent = nullDecimalPtr(percent)
	return d, nil
}

func (r *payrollRepository) queryDeductions(ctx context.Context, p *predicates) ([]payroll.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := deductionSelect + p.where() + " ORDER BY d.effective_date DESC, d.created_at DESC"
	rows, err := q.Query(ctx, query, p.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	defer rows.Close()

	var deductions []payroll.Deduction
	for rows.Next() {
		d, err := scanDeduction(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction: %w", err)
		}
		deductions = append(deductions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return deductions, nil
}

func (r *payrollRepository) CreateDeduction(ctx context.Context, deduction payroll.Deduction) (payroll.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	status := deduction.Status
	if status == "" {
		status = payroll.StatusActive
	}

	query := `
		INSERT INTO deductions (employee_id, name, type, basis, amount, percent, status, effective_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	` + deductionReturning

	d, err := scanDeduction(q.QueryRow(ctx, query,
		deduction.EmployeeID, deduction.Name, string(deduction.Type), string(deduction.Basis),
		deduction.Amount, deduction.Percent, string(status), deduction.EffectiveDate, deduction.CreatedBy,
	), false)
	if err != nil {
		if violates(err, foreignKeyViolation, "deductions_employee_id_fkey") {
			return payroll.Deduction{}, payroll.ErrEmployeeNotFound
		}
		return payroll.Deduction{}, fmt.Errorf("failed to create deduction: %w", err)
	}
	d.EmployeeName = deduction.EmployeeName

	return d, nil
}

func (r *payrollRepository) GetDeduction(ctx context.Context, id string) (payroll.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDeduction(q.QueryRow(ctx, deductionSelect+" WHERE d.id = $1", id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Deduction{}, payroll.ErrDeductionNotFound
		}
		return payroll.Deduction{}, fmt.Errorf("failed to get deduction: %w", err)
	}

	return d, nil
}

func (r *payrollRepository) UpdateDeductionStatus(ctx context.Context, id string, status payroll.RecordStatus) (payroll.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE deductions SET status = $2 WHERE id = $1` + deductionReturning

	d, err := scanDeduction(q.QueryRow(ctx, query, id, string(status)), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Deduction{}, payroll.ErrDeductionNotFound
		}
		return payroll.Deduction{}, fmt.Errorf("failed to update deduction status: %w", err)
	}

	return d, nil
}

func (r *payrollRepository) ListDeductions(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Deduction, error) {
	p := &predicates{}
	if filter.EmployeeID != nil {
		p.add("d.employee_id = ?", *filter.EmployeeID)
	}
	if err := periodPredicate(p, filter, "d.effective_date"); err != nil {
		return nil, err
	}
	return r.queryDeductions(ctx, p)
}

func (r *payrollRepository) ListDeductionsInEffect(ctx context.Context, employeeIDs []string, asOf time.Time) ([]payroll.Deduction, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	p := &predicates{}
	p.add("d.employee_id = ANY(?::uuid[])", employeeIDs)
	p.add("d.status = ?", string(payroll.StatusActive))
	p.add("d.effective_date <= ?", asOf)
	return r.queryDeductions(ctx, p)
}

// ========== REIMBURSEMENTS ==========

func (r *payrollRepository) CreateReimbursement(ctx context.Context, reimbursement payroll.Reimbursement) (payroll.Reimbursement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO reimbursements (employee_id, amount, category, note, period_month, period_year, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, employee_id, amount, category, note, period_month, period_year, created_at, created_by
	`

	var rb payroll.Reimbursement
	err := q.QueryRow(ctx, query,
		reimbursement.EmployeeID, reimbursement.Amount, reimbursement.Category, reimbursement.Note,
		reimbursement.PeriodMonth, reimbursement.PeriodYear, reimbursement.CreatedBy,
	).Scan(
		&rb.ID, &rb.EmployeeID, &rb.Amount, &rb.Category, &rb.Note,
		&rb.PeriodMonth, &rb.PeriodYear, &rb.CreatedAt, &rb.CreatedBy,
	)
	if err != nil {
		if violates(err, foreignKeyViolation, "reimbursements_employee_id_fkey") {
			return payroll.Reimbursement{}, payroll.ErrEmployeeNotFound
		}
		return payroll.Reimbursement{}, fmt.Errorf("failed to create reimbursement: %w", err)
	}
	rb.EmployeeName = reimbursement.EmployeeName

	return rb, nil
}

func (r *payrollRepository) ListReimbursements(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Reimbursement, error) {
	q := GetQuerier(ctx, r.db)

	p := &predicates{}
	if filter.EmployeeID != nil {
		p.add("rb.employee_id = ?", *filter.EmployeeID)
	}
	if filter.Month != nil && filter.Year != nil {
		p.add("rb.period_month = ?", *filter.Month)
		p.add("rb.period_year = ?", *filter.Year)
	}

	query := `
		SELECT rb.id, rb.employee_id, e.full_name, rb.amount, rb.category, rb.note,
			   rb.period_month, rb.period_year, rb.created_at, rb.created_by
		FROM reimbursements rb
		JOIN employees e ON e.id = rb.employee_id
	` + p.where() + " ORDER BY rb.period_year DESC, rb.period_month DESC, rb.created_at DESC"

	rows, err := q.Query(ctx, query, p.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reimbursements: %w", err)
	}
	defer rows.Close()

	var reimbursements []payroll.Reimbursement
	for rows.Next() {
		var rb payroll.Reimbursement
		if err := rows.Scan(
			&rb.ID, &rb.EmployeeID, &rb.EmployeeName, &rb.Amount, &rb.Category, &rb.Note,
			&rb.PeriodMonth, &rb.PeriodYear, &rb.CreatedAt, &rb.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reimbursement: %w", err)
		}
		reimbursements = append(reimbursements, rb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return reimbursements, nil
}
