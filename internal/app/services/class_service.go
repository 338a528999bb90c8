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

type classStore interface {
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	GetByHeadTeacher(ctx context.Context, teacherID string) (*models.Class, error)
	List(ctx context.Context, visibility squirrel.Sqlizer, opts repositories.ClassListOptions, offset uint64, limit int) ([]models.Class, int64, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	StudentCount(ctx context.Context, id int64) (int64, error)
	Create(ctx context.Context, q repositories.Querier, cl *models.Class) error
	Update(ctx context.Context, q repositories.Querier, cl *models.Class) error
	Delete(ctx context.Context, q repositories.Querier, id int64) error
}

type rosterStore interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, visibility squirrel.Sqlizer, opts repositories.StudentListOptions, offset uint64, limit int) ([]models.Student, int64, error)
}

type teacherLookup interface {
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
}

// ClassService implements class management, including the head teacher
// assignment rule: a teacher heads at most one class at a time.
type ClassService struct {
	classes     classStore
	students    rosterStore
	teachers    teacherLookup
	departments departmentLookup
	tx          TxRunner
}

// NewClassService creates a new class service
func NewClassService(classes classStore, students rosterStore, teachers teacherLookup, departments departmentLookup, tx TxRunner) *ClassService {
	return &ClassService{
		classes:     classes,
		students:    students,
		teachers:    teachers,
		departments: departments,
		tx:          tx,
	}
}

// List returns the page of classes the identity may see.
func (s *ClassService) List(ctx context.Context, id auth.Identity, opts repositories.ClassListOptions, page, size int) ([]models.Class, dto.PaginationInfo, error) {
	if err := auth.Require(id, auth.CanViewClassList(id)); err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	classes, total, err := s.classes.List(ctx, auth.ClassFilter(id), opts, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return classes, helpers.NewPaginationInfo(total, page, limit), nil
}

// ownClassID resolves the class a student identity is enrolled in, nil for
// non-students and unlinked accounts.
func (s *ClassService) ownClassID(ctx context.Context, id auth.Identity) *int64 {
	if !id.IsStudent() || id.RelatedID == "" {
		return nil
	}
	st, err := s.students.GetByID(ctx, id.RelatedID)
	if err != nil {
		return nil
	}
	return st.ClassID
}

// Get returns one class if the identity may view that row.
func (s *ClassService) Get(ctx context.Context, id auth.Identity, classID int64) (*models.Class, error) {
	cl, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	if err := auth.Require(id, auth.CanViewClass(id, cl.ID, cl.TeacherID, s.ownClassID(ctx, id))); err != nil {
		return nil, err
	}
	return cl, nil
}

// MyClass resolves the class attached to the caller: the class a teacher
// heads, or the class a student is enrolled in.
func (s *ClassService) MyClass(ctx context.Context, id auth.Identity) (*models.Class, error) {
	if !id.IsAuthenticated() {
		return nil, apperrors.ErrAuthRequired
	}

	switch {
	case id.IsTeacher():
		if id.RelatedID == "" {
			return nil, apperrors.ErrClassNotFound
		}
		return s.classes.GetByHeadTeacher(ctx, id.RelatedID)
	case id.IsStudent():
		ownID := s.ownClassID(ctx, id)
		if ownID == nil {
			return nil, apperrors.ErrClassNotFound
		}
		return s.classes.GetByID(ctx, *ownID)
	}
	return nil, apperrors.ErrPermissionDenied
}

// Roster returns the students of one class, paged. Access follows the class
// row view rule; within the class the caller's student visibility filter
// still applies, so a student sees only their own roster entry.
func (s *ClassService) Roster(ctx context.Context, id auth.Identity, classID int64, page, size int) ([]models.Student, dto.PaginationInfo, error) {
	cl, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	if err := auth.Require(id, auth.CanViewClass(id, cl.ID, cl.TeacherID, s.ownClassID(ctx, id))); err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	opts := repositories.StudentListOptions{ClassID: classID}
	students, total, err := s.students.List(ctx, auth.StudentFilter(id), opts, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return students, helpers.NewPaginationInfo(total, page, limit), nil
}

// validateHeadTeacher checks that the teacher exists and heads no other
// class. excludeClassID exempts the class being edited so re-saving an
// unchanged assignment is not a conflict.
func (s *ClassService) validateHeadTeacher(ctx context.Context, teacherID string, excludeClassID int64) error {
	if _, err := s.teachers.GetByID(ctx, teacherID); err != nil {
		if errors.Is(err, apperrors.ErrTeacherNotFound) {
			return apperrors.NewFieldError(apperrors.ErrTeacherNotFound, "teacherId", "teacher does not exist")
		}
		return err
	}

	existing, err := s.classes.GetByHeadTeacher(ctx, teacherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrClassNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != excludeClassID {
		return apperrors.NewFieldError(apperrors.ErrHeadTeacherTaken, "teacherId", "teacher already heads another class")
	}
	return nil
}

func (s *ClassService) buildClass(ctx context.Context, req *dto.ClassRequest, excludeClassID int64) (*models.Class, error) {
	if req.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, apperrors.ErrDepartmentNotFound) {
				return nil, apperrors.NewFieldError(apperrors.ErrDepartmentNotFound, "departmentId", "department does not exist")
			}
			return nil, err
		}
	}

	if req.TeacherID != nil && *req.TeacherID != "" {
		if err := s.validateHeadTeacher(ctx, *req.TeacherID, excludeClassID); err != nil {
			return nil, err
		}
	}

	return &models.Class{
		Name:         req.Name,
		Grade:        req.Grade,
		DepartmentID: req.DepartmentID,
		TeacherID:    req.TeacherID,
		Description:  req.Description,
	}, nil
}

// Create adds a class. Admin only.
func (s *ClassService) Create(ctx context.Context, id auth.Identity, req *dto.ClassRequest) (*models.Class, error) {
	if err := auth.Require(id, auth.CanCreateClass(id)); err != nil {
		return nil, err
	}

	taken, err := s.classes.NameTaken(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewFieldError(apperrors.ErrClassNameAlreadyExists, "name", "class name already exists")
	}

	cl, err := s.buildClass(ctx, req, 0)
	if err != nil {
		return nil, err
	}

	err = s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.classes.Create(ctx, q, cl)
	})
	if err != nil {
		return nil, err
	}

	return s.classes.GetByID(ctx, cl.ID)
}

// Update rewrites a class. Admins and the class's current head teacher may
// edit.
func (s *ClassService) Update(ctx context.Context, id auth.Identity, classID int64, req *dto.ClassRequest) (*models.Class, error) {
	current, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	if err := auth.Require(id, auth.CanEditClass(id, current.TeacherID)); err != nil {
		return nil, err
	}

	taken, err := s.classes.NameTaken(ctx, req.Name, classID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewFieldError(apperrors.ErrClassNameAlreadyExists, "name", "class name already exists")
	}

	// Reassigning the head teacher is administrative. Drop the field before
	// validation so an ignored value can never fail the request.
	if !id.IsAdmin() {
		req.TeacherID = current.TeacherID
	}

	cl, err := s.buildClass(ctx, req, classID)
	if err != nil {
		return nil, err
	}
	cl.ID = classID

	err = s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.classes.Update(ctx, q, cl)
	})
	if err != nil {
		return nil, err
	}

	return s.classes.GetByID(ctx, classID)
}

// Delete removes a class. Admin only, and refused while any student is
// still enrolled.
func (s *ClassService) Delete(ctx context.Context, id auth.Identity, classID int64) error {
	if err := auth.Require(id, auth.CanDeleteClass(id)); err != nil {
		return err
	}

	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		return err
	}

	count, err := s.classes.StudentCount(ctx, classID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrClassHasStudents
	}

	return s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.classes.Delete(ctx, q, classID)
	})
}
