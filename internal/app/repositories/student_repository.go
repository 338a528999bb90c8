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
	"github.com/cchuang/regent/internal/pkg/logger"
)

// mapStudentWriteError catches unique violations that raced past the
// service-level duplicate checks.
func mapStudentWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "students_pkey"):
		return apperrors.NewFieldError(apperrors.ErrStudentIDAlreadyExists, "id", "student ID already exists")
	case dberrors.IsDuplicateConstraintError(err, "students_email_key"):
		return apperrors.NewFieldError(apperrors.ErrConflict, "email", "email already in use")
	}
	return err
}

// studentColumns are the columns selected for every student read, joined
// with the class relation for the list/detail views.
var studentColumns = []string{
	"students.student_id", "students.name", "students.class_id", "students.gender",
	"students.birth_date", "students.id_number", "students.address", "students.phone",
	"students.email", "students.enrollment_date", "students.status", "students.notes",
	"students.created_at", "students.updated_at",
	"classes.class_name", "classes.teacher_id",
}

// StudentListOptions are the optional narrowing filters for listings.
type StudentListOptions struct {
	Search  string // substring across name, student_id, email, phone
	ClassID int64  // 0 means no class filter
	Status  string // empty means no status filter
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var st models.Student
	var className *string
	var classTeacherID *string

	err := row.Scan(
		&st.ID, &st.Name, &st.ClassID, &st.Gender,
		&st.BirthDate, &st.IDNumber, &st.Address, &st.Phone,
		&st.Email, &st.EnrollmentDate, &st.Status, &st.Notes,
		&st.CreatedAt, &st.UpdatedAt,
		&className, &classTeacherID,
	)
	if err != nil {
		return nil, err
	}

	if st.ClassID != nil && className != nil {
		st.Class = &models.Class{
			ID:        *st.ClassID,
			Name:      *className,
			TeacherID: classTeacherID,
		}
	}
	return &st, nil
}

// GetByID retrieves one student with its class relation populated.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	query, args, err := r.sb.Select(studentColumns...).
		From("students").
		LeftJoin("classes ON classes.class_id = students.class_id").
		Where(squirrel.Eq{"students.student_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student query: %w", err)
	}

	st, err := scanStudent(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return st, nil
}

// List retrieves a page of students the given visibility condition admits,
// narrowed by the list options. Ordering is by student_id so pagination and
// the search result cap are deterministic.
func (r *StudentRepository) List(ctx context.Context, visibility squirrel.Sqlizer, opts StudentListOptions, offset uint64, limit int) ([]models.Student, int64, error) {
	where := squirrel.And{visibility}
	if s := strings.TrimSpace(opts.Search); s != "" {
		pattern := "%" + s + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"students.name": pattern},
			squirrel.ILike{"students.student_id": pattern},
			squirrel.ILike{"students.email": pattern},
			squirrel.ILike{"students.phone": pattern},
		})
	}
	if opts.ClassID > 0 {
		where = append(where, squirrel.Eq{"students.class_id": opts.ClassID})
	}
	if opts.Status != "" {
		where = append(where, squirrel.Eq{"students.status": opts.Status})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("students").
		LeftJoin("classes ON classes.class_id = students.class_id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}
	if total == 0 {
		return []models.Student{}, 0, nil
	}

	querySQL, queryArgs, err := r.sb.Select(studentColumns...).
		From("students").
		LeftJoin("classes ON classes.class_id = students.class_id").
		Where(where).
		OrderBy("students.student_id ASC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, 0, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// Suggest returns up to limit students whose name or id matches the query,
// within the visibility condition. Used by the autocomplete endpoint.
func (r *StudentRepository) Suggest(ctx context.Context, visibility squirrel.Sqlizer, q string, limit int) ([]models.Student, error) {
	pattern := "%" + strings.TrimSpace(q) + "%"
	querySQL, args, err := r.sb.Select("students.student_id", "students.name").
		From("students").
		Where(squirrel.And{
			visibility,
			squirrel.Or{
				squirrel.ILike{"students.name": pattern},
				squirrel.ILike{"students.student_id": pattern},
			},
		}).
		OrderBy("students.student_id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build suggest students query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query student suggestions: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var st models.Student
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// ExistsByID checks whether a student id is already taken.
func (r *StudentRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE student_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}

// EmailTaken checks whether another student already uses the email.
func (r *StudentRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE email = $1 AND student_id != $2)`,
		email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student email: %w", err)
	}
	return exists, nil
}

// Create inserts a student inside the caller's transaction.
func (r *StudentRepository) Create(ctx context.Context, q Querier, st *models.Student) error {
	_, err := q.Exec(ctx, `
		INSERT INTO students (student_id, name, class_id, gender, birth_date, id_number,
			address, phone, email, enrollment_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		st.ID, st.Name, st.ClassID, st.Gender, st.BirthDate, st.IDNumber,
		st.Address, st.Phone, st.Email, st.EnrollmentDate, st.Status, st.Notes)
	if err != nil {
		if mapped := mapStudentWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// Update rewrites a student row inside the caller's transaction.
func (r *StudentRepository) Update(ctx context.Context, q Querier, st *models.Student) error {
	tag, err := q.Exec(ctx, `
		UPDATE students
		SET name = $1, class_id = $2, gender = $3, birth_date = $4, id_number = $5,
			address = $6, phone = $7, email = $8, enrollment_date = $9, status = $10,
			notes = $11, updated_at = CURRENT_TIMESTAMP
		WHERE student_id = $12`,
		st.Name, st.ClassID, st.Gender, st.BirthDate, st.IDNumber,
		st.Address, st.Phone, st.Email, st.EnrollmentDate, st.Status,
		st.Notes, st.ID)
	if err != nil {
		if mapped := mapStudentWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student row inside the caller's transaction.
func (r *StudentRepository) Delete(ctx context.Context, q Querier, id string) error {
	tag, err := q.Exec(ctx, `DELETE FROM students WHERE student_id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
