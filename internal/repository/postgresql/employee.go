package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT e.id, e.employee_code, e.full_name, e.email,
		   e.grade_id, g.name, e.department_id, d.name,
		   e.employment_status, e.created_at, e.updated_at
	FROM employees e
	LEFT JOIN grades g ON g.id = e.grade_id
	LEFT JOIN departments d ON d.id = e.department_id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.FullName, &e.Email,
		&e.GradeID, &e.GradeName, &e.DepartmentID, &e.DepartmentName,
		&e.EmploymentStatus, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// employeeFilterPredicates folds a cohort filter into parameterised clauses.
func employeeFilterPredicates(filter employee.EmployeeFilter) *predicates {
	p := &predicates{}
	if filter.Status != nil {
		p.add("e.employment_status = ?", string(*filter.Status))
	}
	if filter.Search != nil {
		if term := strings.TrimSpace(*filter.Search); term != "" {
			like := "%" + term + "%"
			p.add("(e.full_name ILIKE ? OR e.employee_code ILIKE ? OR e.email ILIKE ?)", like, like, like)
		}
	}
	if filter.DepartmentID != nil {
		p.add("e.department_id = ?", *filter.DepartmentID)
	}
	if filter.GradeID != nil {
		p.add("e.grade_id = ?", *filter.GradeID)
	}
	if len(filter.EmployeeIDs) > 0 {
		p.add("e.id = ANY(?::uuid[])", filter.EmployeeIDs)
	}
	return p
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (employee_code, full_name, email, grade_id, department_id, employment_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	status := newEmployee.EmploymentStatus
	if status == "" {
		status = employee.EmploymentStatusActive
	}

	var id string
	err := q.QueryRow(ctx, query,
		newEmployee.EmployeeCode, newEmployee.FullName, newEmployee.Email,
		newEmployee.GradeID, newEmployee.DepartmentID, string(status),
	).Scan(&id)
	if err != nil {
		if violates(err, uniqueViolation, "uk_employee_code") {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, employeeSelect+" WHERE e.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	p := employeeFilterPredicates(filter)
	query := employeeSelect + p.where() + " ORDER BY e.full_name ASC, e.id ASC"

	rows, err := q.Query(ctx, query, p.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// ExistingIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM employees WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check employee ids: %w", err)
	}

	found, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee ids: %w", err)
	}

	return found, nil
}

// AddBasicSalary implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) AddBasicSalary(ctx context.Context, salary employee.BasicSalary) (employee.BasicSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO basic_salaries (employee_id, amount, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, employee_id, amount, created_at, created_by
	`

	var b employee.BasicSalary
	err := q.QueryRow(ctx, query, salary.EmployeeID, salary.Amount, salary.CreatedBy).Scan(
		&b.ID, &b.EmployeeID, &b.Amount, &b.CreatedAt, &b.CreatedBy,
	)
	if err != nil {
		if violates(err, foreignKeyViolation, "") {
			return employee.BasicSalary{}, employee.ErrEmployeeNotFound
		}
		return employee.BasicSalary{}, fmt.Errorf("failed to add basic salary: %w", err)
	}

	return b, nil
}

// GetCurrentBasicSalary implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetCurrentBasicSalary(ctx context.Context, employeeID string) (employee.BasicSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, amount, created_at, created_by
		FROM basic_salaries
		WHERE employee_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var b employee.BasicSalary
	err := q.QueryRow(ctx, query, employeeID).Scan(&b.ID, &b.EmployeeID, &b.Amount, &b.CreatedAt, &b.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.BasicSalary{}, employee.ErrBasicSalaryNotFound
		}
		return employee.BasicSalary{}, fmt.Errorf("failed to get basic salary: %w", err)
	}

	return b, nil
}

// ListBasicSalaryHistory implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListBasicSalaryHistory(ctx context.Context, employeeID string) ([]employee.BasicSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, amount, created_at, created_by
		FROM basic_salaries
		WHERE employee_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list basic salary history: %w", err)
	}
	defer rows.Close()

	var history []employee.BasicSalary
	for rows.Next() {
		var b employee.BasicSalary
		if err := rows.Scan(&b.ID, &b.EmployeeID, &b.Amount, &b.CreatedAt, &b.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan basic salary: %w", err)
		}
		history = append(history, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate basic salaries: %w", err)
	}

	return history, nil
}

// CurrentBasicSalaries implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CurrentBasicSalaries(ctx context.Context, employeeIDs []string) (map[string]decimal.Decimal, error) {
	result := make(map[string]decimal.Decimal, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT ON (employee_id) employee_id, amount
		FROM basic_salaries
		WHERE employee_id = ANY($1::uuid[])
		ORDER BY employee_id, created_at DESC, id DESC
	`

	rows, err := q.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get current basic salaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     string
			amount decimal.Decimal
		)
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan basic salary: %w", err)
		}
		result[id] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate basic salaries: %w", err)
	}

	return result, nil
}
