package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations shared by the pool and an open
// transaction. Mutating repository methods take a Querier so the service
// layer decides the transaction boundary explicitly.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	StudentRepository    *StudentRepository
	TeacherRepository    *TeacherRepository
	ClassRepository      *ClassRepository
	DepartmentRepository *DepartmentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		StudentRepository:    NewStudentRepository(db),
		TeacherRepository:    NewTeacherRepository(db),
		ClassRepository:      NewClassRepository(db),
		DepartmentRepository: NewDepartmentRepository(db),
	}
}
