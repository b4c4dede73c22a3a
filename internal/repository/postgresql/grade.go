package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/grade"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type gradeRepositoryImpl struct {
	db *database.DB
}

func NewGradeRepository(db *database.DB) grade.GradeRepository {
	return &gradeRepositoryImpl{db: db}
}

// Create implements grade.GradeRepository.
func (r *gradeRepositoryImpl) Create(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO grades (name)
		VALUES ($1)
		RETURNING id, name, created_at
	`

	var result grade.Grade
	err := q.QueryRow(ctx, query, g.Name).Scan(
		&result.ID,
		&result.Name,
		&result.CreatedAt,
	)

	if err != nil {
		if violates(err, uniqueViolation, "uk_grade_name") {
			return grade.Grade{}, grade.ErrGradeNameExists
		}
		return grade.Grade{}, fmt.Errorf("failed to create grade: %w", err)
	}

	return result, nil
}

// GetByID implements grade.GradeRepository.
func (r *gradeRepositoryImpl) GetByID(ctx context.Context, id string) (grade.Grade, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, created_at
		FROM grades
		WHERE id = $1
	`

	var result grade.Grade
	err := q.QueryRow(ctx, query, id).Scan(
		&result.ID,
		&result.Name,
		&result.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return grade.Grade{}, grade.ErrGradeNotFound
	}

	if err != nil {
		return grade.Grade{}, fmt.Errorf("failed to get grade: %w", err)
	}

	return result, nil
}

// List implements grade.GradeRepository.
func (r *gradeRepositoryImpl) List(ctx context.Context) ([]grade.Grade, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, created_at
		FROM grades
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get grades: %w", err)
	}
	defer rows.Close()

	var grades []grade.Grade
	for rows.Next() {
		var g grade.Grade
		err := rows.Scan(
			&g.ID,
			&g.Name,
			&g.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grade: %w", err)
		}
		grades = append(grades, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return grades, nil
}
