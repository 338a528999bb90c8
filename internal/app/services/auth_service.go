package services

import (
	"context"
	"errors"

	"github.com/cchuang/regent/internal/app/models"
	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/app/repositories"
	"github.com/cchuang/regent/internal/pkg/apperrors"
	pkgauth "github.com/cchuang/regent/internal/pkg/auth"
	"github.com/cchuang/regent/internal/pkg/logger"
)

// authUserStore is the slice of the user repository the auth service needs.
type authUserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	Create(ctx context.Context, q repositories.Querier, u *models.User) error
	UpdateLastLogin(ctx context.Context, id int64) error
}

// AuthService handles login and self-service registration
type AuthService struct {
	users authUserStore
	tx    TxRunner
	jwt   *pkgauth.JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(users authUserStore, tx TxRunner, jwt *pkgauth.JWTService) *AuthService {
	return &AuthService{users: users, tx: tx, jwt: jwt}
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords both yield ErrInvalidCredentials so the response does
// not reveal which part failed.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !pkgauth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, expiresIn, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	// Best effort, a failed stamp must not fail the login
	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to record login time")
	}

	relatedID := ""
	if user.RelatedID != nil {
		relatedID = *user.RelatedID
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		RelatedID: relatedID,
	}, nil
}

// Register creates a self-service account. New accounts get the student
// role with no linked record; an administrator links or promotes them later.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	taken, err := s.users.UsernameTaken(ctx, req.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewFieldError(apperrors.ErrUsernameAlreadyExists, "username", "username already exists")
	}

	hash, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Password: hash,
		Role:     models.RoleStudent,
		IsActive: true,
	}

	err = s.tx.InTx(ctx, func(ctx context.Context, q repositories.Querier) error {
		return s.users.Create(ctx, q, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
