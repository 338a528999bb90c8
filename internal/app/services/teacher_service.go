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

type teacherStore interface {
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
	List(ctx context.Context, visibility squirrel.Sqlizer, opts repositories.TeacherListOptions, offset uint64, limit int) ([]models.Teacher, int64, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, q repositories.Querier, t *models.Teacher) error
	Update(ctx context.Context, q repositories.Querier, t *models.Teacher) error
	Delete(ctx context.Context, q repositories.Querier, id string) error
}

type departmentLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Department, error)
}

// TeacherService implements teacher record management. The roster listing is
// admin only; a teacher may still read and edit their own record.
type TeacherService struct {
	teachers    teacherStore
	departments departmentLookup
	tx          TxRunner
}

// NewTeacherService creates a new teacher service
func NewTeacherService(teachers teacherStore, departments departmentLookup, tx TxRunner) *TeacherService {
	return &TeacherService{teachers: teachers, departments: departments, tx: tx}
}

// List returns the page of teachers the identity may see.
func (s *TeacherService) List(ctx context.Context, id auth.Identity, opts repositories.TeacherListOptions, page, size int) ([]models.Teacher, dto.PaginationInfo, error) {
	if err := auth.Require(id, auth.CanViewTeacherList(id)); err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	teachers, total, err := s.teachers.List(ctx, auth.TeacherFilter(id), opts, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return teachers, helpers.NewPaginationInfo(total, page, limit), nil
}

// Get returns one teacher if the identity may view that row.
func (s *TeacherService) Get(ctx context.Context, id auth.Identity, teacherID string) (*models.Teacher, error) {
	t, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	if err := auth.Require(id, auth.CanViewTeacher(id, t.ID)); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TeacherService) buildTeacher(ctx context.Context, req *dto.TeacherRequest) (*models.Teacher, error) {
	birthDate, err := parseDate(req.BirthDate, "birthDate")
	if err != nil {
		return nil, err
	}
	hireDate, err := parseDate(req.HireDate, "hireDate")
	if err != nil {
		return nil, err
	}

	if req.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, apperrors.ErrDepartmentNotFound) {
				return nil, apperrors.NewFieldError(apperrors.ErrDepartmentNotFound, "departmentId", "department does not exist")
			}
			return nil, err
		}
	}

	return &models.Teacher{
		ID:           req.ID,
		Name:         req.Name,
		Gender:       models.Gender(req.Gender),
		BirthDate:    birthDate,
		IDNumber:     req.IDNumber,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		DepartmentID: req.DepartmentID,
		Position:     req.Position,
		HireDate:     hireDate,
		Salary:       req.Salary,
		Notes:        req.Notes,
	}, nil
}

// Create adds a teacher record. Admin only.
func (s *TeacherService) Create(ctx context.Context, id auth.Identity, req *dto.TeacherRequest) (*models.Teacher, error) {
	if err := auth.Require(id, auth.CanCreateTeacher(id)); err != nil {
		return nil, err
	}

	exists, err := s.teachers.ExistsByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewFieldError(apperrors.ErrTeacherIDAlreadyExists, "id", "teacher ID already exists")
	}

	if req.Email != nil && *req.Email != "" {
		taken, err := s.teachers.EmailTaken(ctx, *req.Email, req.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.NewFieldError(apperrors.ErrConflict, "email", "email already in use")
		}
	}

	t, err := s.buildTeacher(ctx, req)
	if err != nil {
		return nil, err
	}

	err = s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.teachers.Create(ctx, q, t)
	})
	if err != nil {
		return nil, err
	}

	return s.teachers.GetByID(ctx, t.ID)
}

// Update rewrites a teacher record. Teacher numbers are immutable; the path
// id wins over any id in the payload. Non-admin callers may only touch their
// own record, which CanEditTeacher enforces.
func (s *TeacherService) Update(ctx context.Context, id auth.Identity, teacherID string, req *dto.TeacherRequest) (*models.Teacher, error) {
	current, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	if err := auth.Require(id, auth.CanEditTeacher(id, current.ID)); err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != "" {
		taken, err := s.teachers.EmailTaken(ctx, *req.Email, teacherID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.NewFieldError(apperrors.ErrConflict, "email", "email already in use")
		}
	}

	t, err := s.buildTeacher(ctx, req)
	if err != nil {
		return nil, err
	}
	t.ID = teacherID

	// Salary is an administrative field
	if !id.IsAdmin() {
		t.Salary = current.Salary
	}

	err = s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.teachers.Update(ctx, q, t)
	})
	if err != nil {
		return nil, err
	}

	return s.teachers.GetByID(ctx, teacherID)
}

// Delete removes a teacher record. Admin only. Classes headed by the teacher
// keep their rows; the head teacher reference is cleared by the schema's
// ON DELETE SET NULL.
func (s *TeacherService) Delete(ctx context.Context, id auth.Identity, teacherID string) error {
	if err := auth.Require(id, auth.CanDeleteTeacher(id)); err != nil {
		return err
	}

	if _, err := s.teachers.GetByID(ctx, teacherID); err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.teachers.Delete(ctx, q, teacherID)
	})
}
