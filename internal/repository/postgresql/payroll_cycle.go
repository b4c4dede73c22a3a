package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
)

func (r *payrollRepository) CreateCycle(ctx context.Context, cycle payroll.PayrollCycle) (payroll.PayrollCycle, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_cycles (
			employee_id, period_month, period_year,
			basic, allowances, overtime, bonus, gross, total_deductions, net,
			generated_at, generated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, generated_at
	`

	result := cycle
	err := q.QueryRow(ctx, query,
		cycle.EmployeeID, cycle.PeriodMonth, cycle.PeriodYear,
		cycle.Basic, cycle.Allowances, cycle.Overtime, cycle.Bonus, cycle.Gross, cycle.TotalDeductions, cycle.Net,
		cycle.GeneratedAt, cycle.GeneratedBy,
	).Scan(&result.ID, &result.GeneratedAt)
	if err != nil {
		if violates(err, foreignKeyViolation, "payroll_cycles_employee_id_fkey") {
			return payroll.PayrollCycle{}, payroll.ErrEmployeeNotFound
		}
		return payroll.PayrollCycle{}, fmt.Errorf("failed to create payroll cycle: %w", err)
	}

	return result, nil
}

func (r *payrollRepository) ListCycles(ctx context.Context, filter payroll.CycleFilter) ([]payroll.PayrollCycle, int64, error) {
	q := GetQuerier(ctx, r.db)

	p := &predicates{}
	if filter.Month != nil {
		p.add("c.period_month = ?", *filter.Month)
	}
	if filter.Year != nil {
		p.add("c.period_year = ?", *filter.Year)
	}
	if filter.EmployeeID != nil {
		p.add("c.employee_id = ?", *filter.EmployeeID)
	}
	if filter.GeneratedBy != nil {
		p.add("c.generated_by = ?", *filter.GeneratedBy)
	}

	baseQuery := `
		FROM payroll_cycles c
		JOIN employees e ON e.id = c.employee_id
	` + p.where()

	// COUNT query for total records
	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, p.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll cycles: %w", err)
	}

	selectQuery := `
		SELECT c.id, c.employee_id, e.full_name, c.period_month, c.period_year,
			   c.basic, c.allowances, c.overtime, c.bonus, c.gross, c.total_deductions, c.net,
			   c.generated_at, c.generated_by
	` + baseQuery + fmt.Sprintf(
		" ORDER BY c.period_year DESC, c.period_month DESC, c.generated_at DESC, e.full_name ASC LIMIT %s OFFSET %s",
		p.bind(filter.Limit), p.bind(filter.Offset()),
	)

	rows, err := q.Query(ctx, selectQuery, p.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll cycles: %w", err)
	}
	defer rows.Close()

	var cycles []payroll.PayrollCycle
	for rows.Next() {
		var c payroll.PayrollCycle
		if err := rows.Scan(
			&c.ID, &c.EmployeeID, &c.EmployeeName, &c.PeriodMonth, &c.PeriodYear,
			&c.Basic, &c.Allowances, &c.Overtime, &c.Bonus, &c.Gross, &c.TotalDeductions, &c.Net,
			&c.GeneratedAt, &c.GeneratedBy,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll cycle: %w", err)
		}
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return cycles, total, nil
}
