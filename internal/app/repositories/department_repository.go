package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cchuang/regent/internal/app/models"
	"github.com/cchuang/regent/internal/pkg/apperrors"
	"github.com/cchuang/regent/internal/pkg/dberrors"
)

func mapDepartmentWriteError(err error) error {
	if dberrors.IsDuplicateConstraintError(err, "departments_department_name_key") {
		return apperrors.NewFieldError(apperrors.ErrResourceAlreadyExists, "name", "department name already exists")
	}
	return err
}

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db *pgxpool.Pool
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// GetAll retrieves all departments ordered by name.
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]models.Department, error) {
	rows, err := r.db.Query(ctx, `
		SELECT department_id, department_name
		FROM departments
		ORDER BY department_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying departments: %w", err)
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("error scanning department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// GetByID retrieves one department by id.
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	var d models.Department
	err := r.db.QueryRow(ctx, `
		SELECT department_id, department_name
		FROM departments
		WHERE department_id = $1`, id).Scan(&d.ID, &d.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}
	return &d, nil
}

// NameTaken checks whether another department already uses the name.
func (r *DepartmentRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM departments WHERE department_name = $1 AND department_id != $2)`,
		name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking department name: %w", err)
	}
	return exists, nil
}

// IsReferenced reports whether any teacher or class still points at the
// department. Referenced departments cannot be deleted.
func (r *DepartmentRepository) IsReferenced(ctx context.Context, id int64) (bool, error) {
	var referenced bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM teachers WHERE department_id = $1)
			OR EXISTS(SELECT 1 FROM classes WHERE department_id = $1)`,
		id).Scan(&referenced)
	if err != nil {
		return false, fmt.Errorf("error checking department references: %w", err)
	}
	return referenced, nil
}

// Create inserts a department inside the caller's transaction and fills the
// generated id.
func (r *DepartmentRepository) Create(ctx context.Context, q Querier, d *models.Department) error {
	err := q.QueryRow(ctx, `
		INSERT INTO departments (department_name)
		VALUES ($1)
		RETURNING department_id`, d.Name).Scan(&d.ID)
	if err != nil {
		if mapped := mapDepartmentWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error creating department: %w", err)
	}
	return nil
}

// Update renames a department inside the caller's transaction.
func (r *DepartmentRepository) Update(ctx context.Context, q Querier, d *models.Department) error {
	tag, err := q.Exec(ctx, `
		UPDATE departments SET department_name = $1 WHERE department_id = $2`,
		d.Name, d.ID)
	if err != nil {
		if mapped := mapDepartmentWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error updating department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}
	return nil
}

// Delete removes a department inside the caller's transaction.
func (r *DepartmentRepository) Delete(ctx context.Context, q Querier, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM departments WHERE department_id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}
	return nil
}
