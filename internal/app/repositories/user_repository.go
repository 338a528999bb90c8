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

func mapUserWriteError(err error) error {
	if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
		return apperrors.NewFieldError(apperrors.ErrUsernameAlreadyExists, "username", "username already exists")
	}
	return err
}

var userColumns = []string{
	"user_id", "username", "password_hash", "role", "related_id",
	"is_active", "last_login", "created_at", "updated_at",
}

// UserRepository handles database operations for accounts
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Password, &u.Role, &u.RelatedID,
		&u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves one account by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"user_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return u, nil
}

// GetByUsername retrieves one account by username. Used by login.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return u, nil
}

// List retrieves a page of accounts, optionally narrowed by a username or
// role substring search.
func (r *UserRepository) List(ctx context.Context, search string, offset uint64, limit int) ([]models.User, int64, error) {
	where := squirrel.And{squirrel.Expr("TRUE")}
	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + s + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"username": pattern},
			squirrel.ILike{"role": pattern},
		})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count users query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	if total == 0 {
		return []models.User{}, 0, nil
	}

	querySQL, queryArgs, err := r.sb.Select(userColumns...).
		From("users").
		Where(where).
		OrderBy("user_id ASC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UsernameTaken checks whether another account already uses the username.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND user_id != $2)`,
		username, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return exists, nil
}

// Create inserts an account inside the caller's transaction and fills the
// generated id.
func (r *UserRepository) Create(ctx context.Context, q Querier, u *models.User) error {
	err := q.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role, related_id, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id`,
		u.Username, u.Password, u.Role, u.RelatedID, u.IsActive).Scan(&u.ID)
	if err != nil {
		if mapped := mapUserWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// Update rewrites the mutable account fields inside the caller's transaction.
// The password hash is managed separately by UpdatePassword.
func (r *UserRepository) Update(ctx context.Context, q Querier, u *models.User) error {
	tag, err := q.Exec(ctx, `
		UPDATE users
		SET username = $1, role = $2, related_id = $3, is_active = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $5`,
		u.Username, u.Role, u.RelatedID, u.IsActive, u.ID)
	if err != nil {
		if mapped := mapUserWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash inside the caller's
// transaction.
func (r *UserRepository) UpdatePassword(ctx context.Context, q Querier, id int64, passwordHash string) error {
	tag, err := q.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2`,
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin stamps the last successful login time. Best effort on the
// login path, runs outside any transaction.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// Delete removes an account inside the caller's transaction.
func (r *UserRepository) Delete(ctx context.Context, q Querier, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
