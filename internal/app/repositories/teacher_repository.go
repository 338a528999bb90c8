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

func mapTeacherWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "teachers_pkey"):
		return apperrors.NewFieldError(apperrors.ErrTeacherIDAlreadyExists, "id", "teacher ID already exists")
	case dberrors.IsDuplicateConstraintError(err, "teachers_email_key"):
		return apperrors.NewFieldError(apperrors.ErrConflict, "email", "email already in use")
	}
	return err
}

var teacherColumns = []string{
	"teachers.teacher_id", "teachers.name", "teachers.gender", "teachers.birth_date",
	"teachers.id_number", "teachers.address", "teachers.phone", "teachers.email",
	"teachers.department_id", "teachers.position", "teachers.hire_date",
	"teachers.salary", "teachers.notes", "teachers.created_at", "teachers.updated_at",
	"departments.department_name",
}

// TeacherListOptions are the optional narrowing filters for listings.
type TeacherListOptions struct {
	Search       string // substring across name, teacher_id, email, phone, position
	DepartmentID int64  // 0 means no department filter
}

// TeacherRepository handles database operations for teachers
type TeacherRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(db *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	var t models.Teacher
	var departmentName *string

	err := row.Scan(
		&t.ID, &t.Name, &t.Gender, &t.BirthDate,
		&t.IDNumber, &t.Address, &t.Phone, &t.Email,
		&t.DepartmentID, &t.Position, &t.HireDate,
		&t.Salary, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
		&departmentName,
	)
	if err != nil {
		return nil, err
	}

	if t.DepartmentID != nil && departmentName != nil {
		t.Department = &models.Department{
			ID:   *t.DepartmentID,
			Name: *departmentName,
		}
	}
	return &t, nil
}

// GetByID retrieves one teacher with its department relation populated.
func (r *TeacherRepository) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	query, args, err := r.sb.Select(teacherColumns...).
		From("teachers").
		LeftJoin("departments ON departments.department_id = teachers.department_id").
		Where(squirrel.Eq{"teachers.teacher_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build teacher query: %w", err)
	}

	t, err := scanTeacher(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}
	return t, nil
}

// List retrieves a page of teachers the visibility condition admits,
// ordered by teacher_id for deterministic pagination.
func (r *TeacherRepository) List(ctx context.Context, visibility squirrel.Sqlizer, opts TeacherListOptions, offset uint64, limit int) ([]models.Teacher, int64, error) {
	where := squirrel.And{visibility}
	if s := strings.TrimSpace(opts.Search); s != "" {
		pattern := "%" + s + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"teachers.name": pattern},
			squirrel.ILike{"teachers.teacher_id": pattern},
			squirrel.ILike{"teachers.email": pattern},
			squirrel.ILike{"teachers.phone": pattern},
			squirrel.ILike{"teachers.position": pattern},
		})
	}
	if opts.DepartmentID > 0 {
		where = append(where, squirrel.Eq{"teachers.department_id": opts.DepartmentID})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("teachers").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count teachers query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count teachers: %w", err)
	}
	if total == 0 {
		return []models.Teacher{}, 0, nil
	}

	querySQL, queryArgs, err := r.sb.Select(teacherColumns...).
		From("teachers").
		LeftJoin("departments ON departments.department_id = teachers.department_id").
		Where(where).
		OrderBy("teachers.teacher_id ASC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list teachers query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query teachers: %w", err)
	}
	defer rows.Close()

	var teachers []models.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan teacher row: %w", err)
		}
		teachers = append(teachers, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return teachers, total, nil
}

// Suggest returns up to limit teachers whose name or id matches the query,
// within the visibility condition.
func (r *TeacherRepository) Suggest(ctx context.Context, visibility squirrel.Sqlizer, q string, limit int) ([]models.Teacher, error) {
	pattern := "%" + strings.TrimSpace(q) + "%"
	querySQL, args, err := r.sb.Select("teachers.teacher_id", "teachers.name").
		From("teachers").
		Where(squirrel.And{
			visibility,
			squirrel.Or{
				squirrel.ILike{"teachers.name": pattern},
				squirrel.ILike{"teachers.teacher_id": pattern},
			},
		}).
		OrderBy("teachers.teacher_id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build suggest teachers query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query teacher suggestions: %w", err)
	}
	defer rows.Close()

	var teachers []models.Teacher
	for rows.Next() {
		var t models.Teacher
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

// ExistsByID checks whether a teacher id is already taken.
func (r *TeacherRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM teachers WHERE teacher_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking teacher existence: %w", err)
	}
	return exists, nil
}

// EmailTaken checks whether another teacher already uses the email.
func (r *TeacherRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM teachers WHERE email = $1 AND teacher_id != $2)`,
		email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking teacher email: %w", err)
	}
	return exists, nil
}

// Create inserts a teacher inside the caller's transaction.
func (r *TeacherRepository) Create(ctx context.Context, q Querier, t *models.Teacher) error {
	_, err := q.Exec(ctx, `
		INSERT INTO teachers (teacher_id, name, gender, birth_date, id_number, address,
			phone, email, department_id, position, hire_date, salary, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.ID, t.Name, t.Gender, t.BirthDate, t.IDNumber, t.Address,
		t.Phone, t.Email, t.DepartmentID, t.Position, t.HireDate, t.Salary, t.Notes)
	if err != nil {
		if mapped := mapTeacherWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error creating teacher: %w", err)
	}
	return nil
}

// Update rewrites a teacher row inside the caller's transaction.
func (r *TeacherRepository) Update(ctx context.Context, q Querier, t *models.Teacher) error {
	tag, err := q.Exec(ctx, `
		UPDATE teachers
		SET name = $1, gender = $2, birth_date = $3, id_number = $4, address = $5,
			phone = $6, email = $7, department_id = $8, position = $9, hire_date = $10,
			salary = $11, notes = $12, updated_at = CURRENT_TIMESTAMP
		WHERE teacher_id = $13`,
		t.Name, t.Gender, t.BirthDate, t.IDNumber, t.Address,
		t.Phone, t.Email, t.DepartmentID, t.Position, t.HireDate,
		t.Salary, t.Notes, t.ID)
	if err != nil {
		if mapped := mapTeacherWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error updating teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTeacherNotFound
	}
	return nil
}

// Delete removes a teacher row inside the caller's transaction.
func (r *TeacherRepository) Delete(ctx context.Context, q Querier, id string) error {
	tag, err := q.Exec(ctx, `DELETE FROM teachers WHERE teacher_id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTeacherNotFound
	}
	return nil
}
