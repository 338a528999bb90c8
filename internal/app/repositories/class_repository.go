package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cchuang/regent/internal/app/models"
	"github.com/cchuang/regent/internal/pkg/apperrors"
	"github.com/cchuang/regent/internal/pkg/dberrors"
)

func mapClassWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "classes_class_name_key"):
		return apperrors.NewFieldError(apperrors.ErrClassNameAlreadyExists, "name", "class name already exists")
	case dberrors.IsDuplicateConstraintError(err, "classes_teacher_id_key"):
		return apperrors.NewFieldError(apperrors.ErrHeadTeacherTaken, "teacherId", "teacher already heads another class")
	}
	return err
}

var classColumns = []string{
	"classes.class_id", "classes.class_name", "classes.grade", "classes.department_id",
	"classes.teacher_id", "classes.description", "classes.created_at", "classes.updated_at",
	"departments.department_name",
	"teachers.name",
	"(SELECT COUNT(*) FROM students WHERE students.class_id = classes.class_id)",
}

// ClassListOptions are the optional narrowing filters for listings.
type ClassListOptions struct {
	Search       string // substring on class name
	DepartmentID int64  // 0 means no department filter
	Grade        int    // 0 means no grade filter
}

// ClassRepository handles database operations for classes
type ClassRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClassRepository creates a new class repository
func NewClassRepository(db *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanClass(row pgx.Row) (*models.Class, error) {
	var cl models.Class
	var departmentName *string
	var teacherName *string

	err := row.Scan(
		&cl.ID, &cl.Name, &cl.Grade, &cl.DepartmentID,
		&cl.TeacherID, &cl.Description, &cl.CreatedAt, &cl.UpdatedAt,
		&departmentName,
		&teacherName,
		&cl.StudentCount,
	)
	if err != nil {
		return nil, err
	}

	if cl.DepartmentID != nil && departmentName != nil {
		cl.Department = &models.Department{ID: *cl.DepartmentID, Name: *departmentName}
	}
	if cl.TeacherID != nil && teacherName != nil {
		cl.Teacher = &models.Teacher{ID: *cl.TeacherID, Name: *teacherName}
	}
	return &cl, nil
}

func (r *ClassRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(classColumns...).
		From("classes").
		LeftJoin("departments ON departments.department_id = classes.department_id").
		LeftJoin("teachers ON teachers.teacher_id = classes.teacher_id")
}

// GetByID retrieves one class with department, head teacher and roster size.
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	query, args, err := r.baseSelect().
		Where(squirrel.Eq{"classes.class_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build class query: %w", err)
	}

	cl, err := scanClass(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error retrieving class: %w", err)
	}
	return cl, nil
}

// GetByHeadTeacher retrieves the class a teacher heads, or ErrClassNotFound
// when the teacher heads none.
func (r *ClassRepository) GetByHeadTeacher(ctx context.Context, teacherID string) (*models.Class, error) {
	query, args, err := r.baseSelect().
		Where(squirrel.Eq{"classes.teacher_id": teacherID}).
		OrderBy("classes.class_id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build head teacher class query: %w", err)
	}

	cl, err := scanClass(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error retrieving head teacher class: %w", err)
	}
	return cl, nil
}

// List retrieves a page of classes the visibility condition admits,
// ordered by grade then name for a stable listing.
func (r *ClassRepository) List(ctx context.Context, visibility squirrel.Sqlizer, opts ClassListOptions, offset uint64, limit int) ([]models.Class, int64, error) {
	where := squirrel.And{visibility}
	if s := strings.TrimSpace(opts.Search); s != "" {
		where = append(where, squirrel.ILike{"classes.class_name": "%" + s + "%"})
	}
	if opts.DepartmentID > 0 {
		where = append(where, squirrel.Eq{"classes.department_id": opts.DepartmentID})
	}
	if opts.Grade > 0 {
		where = append(where, squirrel.Eq{"classes.grade": opts.Grade})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("classes").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count classes query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count classes: %w", err)
	}
	if total == 0 {
		return []models.Class{}, 0, nil
	}

	querySQL, queryArgs, err := r.baseSelect().
		Where(where).
		OrderBy("classes.grade ASC", "classes.class_name ASC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list classes query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	var classes []models.Class
	for rows.Next() {
		cl, err := scanClass(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan class row: %w", err)
		}
		classes = append(classes, *cl)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return classes, total, nil
}

// NameTaken checks whether another class already uses the name.
func (r *ClassRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM classes WHERE class_name = $1 AND class_id != $2)`,
		name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking class name: %w", err)
	}
	return exists, nil
}

// StudentCount returns the number of students enrolled in the class.
func (r *ClassRepository) StudentCount(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE class_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting class students: %w", err)
	}
	return count, nil
}

// Create inserts a class inside the caller's transaction and fills the
// generated id.
func (r *ClassRepository) Create(ctx context.Context, q Querier, cl *models.Class) error {
	err := q.QueryRow(ctx, `
		INSERT INTO classes (class_name, grade, department_id, teacher_id, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING class_id`,
		cl.Name, cl.Grade, cl.DepartmentID, cl.TeacherID, cl.Description).Scan(&cl.ID)
	if err != nil {
		if mapped := mapClassWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error creating class: %w", err)
	}
	return nil
}

// Update rewrites a class row inside the caller's transaction.
func (r *ClassRepository) Update(ctx context.Context, q Querier, cl *models.Class) error {
	tag, err := q.Exec(ctx, `
		UPDATE classes
		SET class_name = $1, grade = $2, department_id = $3, teacher_id = $4,
			description = $5, updated_at = CURRENT_TIMESTAMP
		WHERE class_id = $6`,
		cl.Name, cl.Grade, cl.DepartmentID, cl.TeacherID, cl.Description, cl.ID)
	if err != nil {
		if mapped := mapClassWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error updating class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}

// Delete removes a class row inside the caller's transaction.
func (r *ClassRepository) Delete(ctx context.Context, q Querier, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM classes WHERE class_id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}
