package services

import (
	"context"

	"github.com/cchuang/regent/internal/app/auth"
	"github.com/cchuang/regent/internal/app/models"
	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/app/repositories"
	"github.com/cchuang/regent/internal/pkg/apperrors"
)

type departmentStore interface {
	GetAll(ctx context.Context) ([]models.Department, error)
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	IsReferenced(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, q repositories.Querier, d *models.Department) error
	Update(ctx context.Context, q repositories.Querier, d *models.Department) error
	Delete(ctx context.Context, q repositories.Querier, id int64) error
}

// DepartmentService implements department management. The full list is
// readable by any authenticated account since department names appear in
// class and teacher views; mutation is admin only.
type DepartmentService struct {
	departments departmentStore
	tx          TxRunner
}

// NewDepartmentService creates a new department service
func NewDepartmentService(departments departmentStore, tx TxRunner) *DepartmentService {
	return &DepartmentService{departments: departments, tx: tx}
}

// List returns all departments.
func (s *DepartmentService) List(ctx context.Context, id auth.Identity) ([]models.Department, error) {
	if err := auth.Require(id, id.IsAuthenticated()); err != nil {
		return nil, err
	}
	return s.departments.GetAll(ctx)
}

// Get returns one department.
func (s *DepartmentService) Get(ctx context.Context, id auth.Identity, departmentID int64) (*models.Department, error) {
	if err := auth.Require(id, id.IsAuthenticated()); err != nil {
		return nil, err
	}
	return s.departments.GetByID(ctx, departmentID)
}

// Create adds a department. Admin only.
func (s *DepartmentService) Create(ctx context.Context, id auth.Identity, req *dto.DepartmentRequest) (*models.Department, error) {
	if err := auth.Require(id, id.IsAdmin()); err != nil {
		return nil, err
	}

	taken, err := s.departments.NameTaken(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewFieldError(apperrors.ErrResourceAlreadyExists, "name", "department name already exists")
	}

	d := &models.Department{Name: req.Name}
	err = s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.departments.Create(ctx, q, d)
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Update renames a department. Admin only.
func (s *DepartmentService) Update(ctx context.Context, id auth.Identity, departmentID int64, req *dto.DepartmentRequest) (*models.Department, error) {
	if err := auth.Require(id, id.IsAdmin()); err != nil {
		return nil, err
	}

	d, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	taken, err := s.departments.NameTaken(ctx, req.Name, departmentID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewFieldError(apperrors.ErrResourceAlreadyExists, "name", "department name already exists")
	}

	d.Name = req.Name
	err = s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.departments.Update(ctx, q, d)
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Delete removes a department. Admin only, and refused while any teacher or
// class still references it.
func (s *DepartmentService) Delete(ctx context.Context, id auth.Identity, departmentID int64) error {
	if err := auth.Require(id, id.IsAdmin()); err != nil {
		return err
	}

	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		return err
	}

	referenced, err := s.departments.IsReferenced(ctx, departmentID)
	if err != nil {
		return err
	}
	if referenced {
		return apperrors.ErrDepartmentReferenced
	}

	return s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.departments.Delete(ctx, q, departmentID)
	})
}
