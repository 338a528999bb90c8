package services

import (
	"context"

	"github.com/cchuang/regent/internal/app/auth"
	"github.com/cchuang/regent/internal/app/models"
	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/app/repositories"
	"github.com/cchuang/regent/internal/pkg/apperrors"
	pkgauth "github.com/cchuang/regent/internal/pkg/auth"
	"github.com/cchuang/regent/internal/pkg/helpers"
)

type userStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, search string, offset uint64, limit int) ([]models.User, int64, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	Create(ctx context.Context, q repositories.Querier, u *models.User) error
	Update(ctx context.Context, q repositories.Querier, u *models.User) error
	UpdatePassword(ctx context.Context, q repositories.Querier, id int64, passwordHash string) error
	Delete(ctx context.Context, q repositories.Querier, id int64) error
}

// UserService implements account administration. Listing, creation and
// deletion are admin operations; an account may view and partially edit
// itself.
type UserService struct {
	users userStore
	tx    TxRunner
}

// NewUserService creates a new user service
func NewUserService(users userStore, tx TxRunner) *UserService {
	return &UserService{users: users, tx: tx}
}

// List returns a page of accounts. Admin only.
func (s *UserService) List(ctx context.Context, id auth.Identity, search string, page, size int) ([]models.User, dto.PaginationInfo, error) {
	if err := auth.Require(id, auth.CanManageUsers(id)); err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	users, total, err := s.users.List(ctx, search, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return users, helpers.NewPaginationInfo(total, page, limit), nil
}

// Get returns one account: admin, or the account itself.
func (s *UserService) Get(ctx context.Context, id auth.Identity, userID int64) (*models.User, error) {
	if err := auth.Require(id, auth.CanViewUser(id, userID)); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// Create adds an account. Admin only.
func (s *UserService) Create(ctx context.Context, id auth.Identity, req *dto.CreateUserRequest) (*models.User, error) {
	if err := auth.Require(id, auth.CanManageUsers(id)); err != nil {
		return nil, err
	}

	taken, err := s.users.UsernameTaken(ctx, req.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewFieldError(apperrors.ErrUsernameAlreadyExists, "username", "username already exists")
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		return nil, apperrors.NewFieldError(apperrors.ErrValidationFailed, "role", "unknown role")
	}

	hash, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := &models.User{
		Username:  req.Username,
		Password:  hash,
		Role:      role,
		RelatedID: req.RelatedID,
		IsActive:  isActive,
	}

	err = s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.users.Create(ctx, q, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Update rewrites an account. Admins may change everything; an account
// editing itself may only change its username. Role, link and active-state
// changes by a non-admin are silently dropped rather than erroring, so the
// same form serves both cases.
func (s *UserService) Update(ctx context.Context, id auth.Identity, userID int64, req *dto.UpdateUserRequest) (*models.User, error) {
	if err := auth.Require(id, auth.CanEditUser(id, userID)); err != nil {
		return nil, err
	}

	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	taken, err := s.users.UsernameTaken(ctx, req.Username, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewFieldError(apperrors.ErrUsernameAlreadyExists, "username", "username already exists")
	}

	current.Username = req.Username
	if id.IsAdmin() {
		if req.Role != nil {
			role, ok := models.ParseRole(*req.Role)
			if !ok {
				return nil, apperrors.NewFieldError(apperrors.ErrValidationFailed, "role", "unknown role")
			}
			current.Role = role
		}
		if req.RelatedID != nil {
			current.RelatedID = req.RelatedID
		}
		if req.IsActive != nil {
			current.IsActive = *req.IsActive
		}
	}

	err = s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.users.Update(ctx, q, current)
	})
	if err != nil {
		return nil, err
	}

	return current, nil
}

// ChangePassword replaces an account password. Self-service changes must
// present the current password; admin resets of other accounts skip that
// check.
func (s *UserService) ChangePassword(ctx context.Context, id auth.Identity, userID int64, req *dto.ChangePasswordRequest) error {
	if err := auth.Require(id, auth.CanEditUser(id, userID)); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	adminReset := id.IsAdmin() && id.UserID != userID
	if !adminReset {
		if !pkgauth.CheckPassword(user.Password, req.CurrentPassword) {
			return apperrors.NewFieldError(apperrors.ErrWrongCurrentPassword, "currentPassword", "current password is incorrect")
		}
	}

	hash, err := pkgauth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.users.UpdatePassword(ctx, q, userID, hash)
	})
}

// Delete removes an account. Admin only, and never the admin's own account;
// that guard keeps the system from locking out its last administrator.
func (s *UserService) Delete(ctx context.Context, id auth.Identity, userID int64) error {
	if err := auth.Require(id, auth.CanManageUsers(id)); err != nil {
		return err
	}

	if id.UserID == userID {
		return apperrors.ErrSelfDelete
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.users.Delete(ctx, q, userID)
	})
}
