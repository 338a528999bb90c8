package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cchuang/regent/internal/app/repositories"
	"github.com/cchuang/regent/internal/db"
	"github.com/cchuang/regent/internal/pkg/apperrors"
	pkgauth "github.com/cchuang/regent/internal/pkg/auth"
)

// TxRunner runs a function against a transactional Querier. Services route
// every mutation through it so a failed write rolls back as a unit; tests
// substitute an in-memory runner.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, q repositories.Querier) error) error
}

// PoolTxRunner is the production TxRunner backed by a pgx connection pool.
type PoolTxRunner struct {
	Pool *pgxpool.Pool
}

// InTx opens a transaction, runs fn and commits, rolling back on error.
func (r PoolTxRunner) InTx(ctx context.Context, fn func(ctx context.Context, q repositories.Querier) error) error {
	return db.WithTransaction(ctx, r.Pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, tx)
	})
}

// Services bundles all application services
type Services struct {
	Auth       *AuthService
	User       *UserService
	Student    *StudentService
	Teacher    *TeacherService
	Class      *ClassService
	Department *DepartmentService
	Search     *SearchService
}

// NewServices wires all services over the shared repositories and pool.
func NewServices(repos *repositories.Repositories, pool *pgxpool.Pool, jwtService *pkgauth.JWTService) *Services {
	tx := PoolTxRunner{Pool: pool}

	return &Services{
		Auth:       NewAuthService(repos.UserRepository, tx, jwtService),
		User:       NewUserService(repos.UserRepository, tx),
		Student:    NewStudentService(repos.StudentRepository, repos.ClassRepository, tx),
		Teacher:    NewTeacherService(repos.TeacherRepository, repos.DepartmentRepository, tx),
		Class:      NewClassService(repos.ClassRepository, repos.StudentRepository, repos.TeacherRepository, repos.DepartmentRepository, tx),
		Department: NewDepartmentService(repos.DepartmentRepository, tx),
		Search:     NewSearchService(repos.StudentRepository, repos.TeacherRepository, repos.ClassRepository),
	}
}

// parseDate converts an optional "2006-01-02" string into a time pointer.
// The binding layer already validated the format; a parse failure here still
// maps to a field validation error rather than a server error.
func parseDate(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, apperrors.NewFieldError(apperrors.ErrValidationFailed, field, "invalid date, expected YYYY-MM-DD")
	}
	return &t, nil
}
