package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/period"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func nullDecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

// periodPredicate restricts dateColumn to the window when the filter names a
// period.
func periodPredicate(p *predicates, filter payroll.RecordFilter, dateColumn string) error {
	if filter.Month == nil || filter.Year == nil {
		return nil
	}
	w, err := period.New(*filter.Month, *filter.Year)
	if err != nil {
		return err
	}
	p.add(dateColumn+" BETWEEN ? AND ?", w.First, w.Last)
	return nil
}

// ========== OVERTIME RULES ==========

const overtimeRuleSelect = `
	SELECT r.id, r.grade_id, g.name, r.rate, r.max_hours, r.created_at, r.updated_at
	FROM overtime_rules r
	JOIN grades g ON g.id = r.grade_id
`

func scanOvertimeRule(row pgx.Row) (payroll.OvertimeRule, error) {
	var rule payroll.OvertimeRule
	err := row.Scan(&rule.ID, &rule.GradeID, &rule.GradeName, &rule.Rate, &rule.MaxHours, &rule.CreatedAt, &rule.UpdatedAt)
	return rule, err
}

func (r *payrollRepository) GetOvertimeRule(ctx context.Context, gradeID string) (payroll.OvertimeRule, error) {
	q := GetQuerier(ctx, r.db)

	rule, err := scanOvertimeRule(q.QueryRow(ctx, overtimeRuleSelect+" WHERE r.grade_id = $1", gradeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.OvertimeRule{}, payroll.ErrOvertimeRuleNotFound
		}
		return payroll.OvertimeRule{}, fmt.Errorf("failed to get overtime rule: %w", err)
	}

	return rule, nil
}

func (r *payrollRepository) UpsertOvertimeRule(ctx context.Context, rule payroll.OvertimeRule) (payroll.OvertimeRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_rules (grade_id, rate, max_hours)
		VALUES ($1, $2, $3)
		ON CONFLICT (grade_id) DO UPDATE SET
			rate = EXCLUDED.rate,
			max_hours = EXCLUDED.max_hours,
			updated_at = NOW()
		RETURNING grade_id
	`

	var gradeID string
	if err := q.QueryRow(ctx, query, rule.GradeID, rule.Rate, rule.MaxHours).Scan(&gradeID); err != nil {
		if violates(err, foreignKeyViolation, "overtime_rules_grade_id_fkey") {
			return payroll.OvertimeRule{}, payroll.ErrGradeNotFound
		}
		return payroll.OvertimeRule{}, fmt.Errorf("failed to upsert overtime rule: %w", err)
	}

	return r.GetOvertimeRule(ctx, gradeID)
}

func (r *payrollRepository) ListOvertimeRules(ctx context.Context) ([]payroll.OvertimeRule, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, overtimeRuleSelect+" ORDER BY g.name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime rules: %w", err)
	}
	defer rows.Close()

	var rules []payroll.OvertimeRule
	for rows.Next() {
		rule, err := scanOvertimeRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return rules, nil
}

// ========== OVERTIME ADJUSTMENTS ==========

const overtimeAdjustmentSelect = `
	SELECT o.id, o.employee_id, e.full_name, o.grade_id, o.hours, o.rate, o.reason,
		   o.effective_date, o.created_at, o.created_by
	FROM overtime_adjustments o
	JOIN employees e ON e.id = o.employee_id
`

func scanOvertimeAdjustment(row pgx.Row) (payroll.OvertimeAdjustment, error) {
	var a payroll.OvertimeAdjustment
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.EmployeeName, &a.GradeID, &a.Hours, &a.Rate, &a.Reason,
		&a.EffectiveDate, &a.CreatedAt, &a.CreatedBy,
	)
	return a, err
}

func (r *payrollRepository) queryOvertimeAdjustments(ctx context.Context, p *predicates) ([]payroll.OvertimeAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := overtimeAdjustmentSelect + p.where() + " ORDER BY o.effective_date DESC, o.created_at DESC"
	rows, err := q.Query(ctx, query, p.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []payroll.OvertimeAdjustment
	for rows.Next() {
		a, err := scanOvertimeAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime adjustment: %w", err)
		}
		adjustments = append(adjustments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return adjustments, nil
}

func (r *payrollRepository) CreateOvertimeAdjustment(ctx context.Context, adjustment payroll.OvertimeAdjustment) (payroll.OvertimeAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_adjustments (employee_id, grade_id, hours, rate, reason, effective_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, employee_id, grade_id, hours, rate, reason, effective_date, created_at, created_by
	`

	var a payroll.OvertimeAdjustment
	err := q.QueryRow(ctx, query,
		adjustment.EmployeeID, adjustment.GradeID, adjustment.Hours, adjustment.Rate,
		adjustment.Reason, adjustment.EffectiveDate, adjustment.CreatedBy,
	).Scan(
		&a.ID, &a.EmployeeID, &a.GradeID, &a.Hours, &a.Rate, &a.Reason, &a.EffectiveDate, &a.CreatedAt, &a.CreatedBy,
	)
	if err != nil {
		if violates(err, foreignKeyViolation, "overtime_adjustments_employee_id_fkey") {
			return payroll.OvertimeAdjustment{}, payroll.ErrEmployeeNotFound
		}
		return payroll.OvertimeAdjustment{}, fmt.Errorf("failed to create overtime adjustment: %w", err)
	}
	a.EmployeeName = adjustment.EmployeeName

	return a, nil
}

func (r *payrollRepository) ListOvertimeAdjustments(ctx context.Context, filter payroll.RecordFilter) ([]payroll.OvertimeAdjustment, error) {
	p := &predicates{}
	if filter.EmployeeID != nil {
		p.add("o.employee_id = ?", *filter.EmployeeID)
	}
	if err := periodPredicate(p, filter, "o.effective_date"); err != nil {
		return nil, err
	}
	return r.queryOvertimeAdjustments(ctx, p)
}

func (r *payrollRepository) ListOvertimeInWindow(ctx context.Context, employeeIDs []string, w period.Window) ([]payroll.OvertimeAdjustment, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	p := &predicates{}
	p.add("o.employee_id = ANY(?::uuid[])", employeeIDs)
	p.add("o.effective_date BETWEEN ? AND ?", w.First, w.Last)
	return r.queryOvertimeAdjustments(ctx, p)
}
