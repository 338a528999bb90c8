package services

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/cchuang/regent/internal/app/auth"
	"github.com/cchuang/regent/internal/app/models"
	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/app/repositories"
	"github.com/cchuang/regent/internal/pkg/apperrors"
	"github.com/cchuang/regent/internal/pkg/helpers"
)

type studentStore interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, visibility squirrel.Sqlizer, opts repositories.StudentListOptions, offset uint64, limit int) ([]models.Student, int64, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, q repositories.Querier, st *models.Student) error
	Update(ctx context.Context, q repositories.Querier, st *models.Student) error
	Delete(ctx context.Context, q repositories.Querier, id string) error
}

type classLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Class, error)
}

// StudentService implements student record management. Every operation
// starts with an authorization check against the caller's identity; listings
// additionally attach the identity's visibility filter so rows outside the
// caller's scope never leave the database.
type StudentService struct {
	students studentStore
	classes  classLookup
	tx       TxRunner
}

// NewStudentService creates a new student service
func NewStudentService(students studentStore, classes classLookup, tx TxRunner) *StudentService {
	return &StudentService{students: students, classes: classes, tx: tx}
}

// List returns the page of students the identity may see.
func (s *StudentService) List(ctx context.Context, id auth.Identity, opts repositories.StudentListOptions, page, size int) ([]models.Student, dto.PaginationInfo, error) {
	if err := auth.Require(id, auth.CanViewStudentList(id)); err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	students, total, err := s.students.List(ctx, auth.StudentFilter(id), opts, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return students, helpers.NewPaginationInfo(total, page, limit), nil
}

// headTeacherOf extracts the head teacher of the student's class, when the
// repository populated the relation.
func headTeacherOf(st *models.Student) *string {
	if st.Class == nil {
		return nil
	}
	return st.Class.TeacherID
}

// Get returns one student if the identity may view that row.
func (s *StudentService) Get(ctx context.Context, id auth.Identity, studentID string) (*models.Student, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if err := auth.Require(id, auth.CanViewStudent(id, st.ID, headTeacherOf(st))); err != nil {
		return nil, err
	}
	return st, nil
}

// buildStudent validates the request payload into a model, checking the
// class reference when one is given.
func (s *StudentService) buildStudent(ctx context.Context, req *dto.StudentRequest) (*models.Student, error) {
	birthDate, err := parseDate(req.BirthDate, "birthDate")
	if err != nil {
		return nil, err
	}
	enrollmentDate, err := parseDate(req.EnrollmentDate, "enrollmentDate")
	if err != nil {
		return nil, err
	}

	if req.ClassID != nil {
		if _, err := s.classes.GetByID(ctx, *req.ClassID); err != nil {
			if errors.Is(err, apperrors.ErrClassNotFound) {
				return nil, apperrors.NewFieldError(apperrors.ErrClassNotFound, "classId", "class does not exist")
			}
			return nil, err
		}
	}

	return &models.Student{
		ID:             req.ID,
		Name:           req.Name,
		ClassID:        req.ClassID,
		Gender:         models.Gender(req.Gender),
		BirthDate:      birthDate,
		IDNumber:       req.IDNumber,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		EnrollmentDate: enrollmentDate,
		Status:         models.StudentStatus(req.Status),
		Notes:          req.Notes,
	}, nil
}

// Create adds a student record.
func (s *StudentService) Create(ctx context.Context, id auth.Identity, req *dto.StudentRequest) (*models.Student, error) {
	if err := auth.Require(id, auth.CanCreateStudent(id)); err != nil {
		return nil, err
	}

	exists, err := s.students.ExistsByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewFieldError(apperrors.ErrStudentIDAlreadyExists, "id", "student ID already exists")
	}

	if req.Email != nil && *req.Email != "" {
		taken, err := s.students.EmailTaken(ctx, *req.Email, req.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.NewFieldError(apperrors.ErrConflict, "email", "email already in use")
		}
	}

	st, err := s.buildStudent(ctx, req)
	if err != nil {
		return nil, err
	}

	err = s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.students.Create(ctx, q, st)
	})
	if err != nil {
		return nil, err
	}

	return s.students.GetByID(ctx, st.ID)
}

// Update rewrites a student record. The path id wins over any id in the
// payload; student numbers are immutable.
func (s *StudentService) Update(ctx context.Context, id auth.Identity, studentID string, req *dto.StudentRequest) (*models.Student, error) {
	current, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if err := auth.Require(id, auth.CanEditStudent(id, current.ID, headTeacherOf(current))); err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != "" {
		taken, err := s.students.EmailTaken(ctx, *req.Email, studentID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.NewFieldError(apperrors.ErrConflict, "email", "email already in use")
		}
	}

	st, err := s.buildStudent(ctx, req)
	if err != nil {
		return nil, err
	}
	st.ID = studentID

	err = s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.students.Update(ctx, q, st)
	})
	if err != nil {
		return nil, err
	}

	return s.students.GetByID(ctx, studentID)
}

// Delete removes a student record. Admin only.
func (s *StudentService) Delete(ctx context.Context, id auth.Identity, studentID string) error {
	if err := auth.Require(id, auth.CanDeleteStudent(id)); err != nil {
		return err
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.students.Delete(ctx, q, studentID)
	})
}
