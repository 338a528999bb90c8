package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	pkgauth "github.com/cchuang/regent/internal/pkg/auth"
)

// DefaultAdminUsername is the bootstrap administrator account name.
const DefaultAdminUsername = "admin"

// CreateDefaultData ensures the bootstrap administrator account exists so a
// fresh deployment can be configured. The password is taken from the
// ADMIN_PASSWORD environment variable with a development fallback; the seed
// never touches an existing account, so a rotated password stays rotated.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger, adminPassword string) error {
	var exists bool
	err := dbPool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, DefaultAdminUsername).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		lgr.Debug().Msg("Default admin account already present")
		return nil
	}

	if adminPassword == "" {
		adminPassword = "admin123"
		lgr.Warn().Msg("ADMIN_PASSWORD not set, seeding admin with the development default")
	}

	hash, err := pkgauth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	_, err = dbPool.Exec(ctx, `
		INSERT INTO users (username, password_hash, role, is_active)
		VALUES ($1, $2, 'admin', TRUE)`,
		DefaultAdminUsername, hash)
	if err != nil {
		return err
	}

	lgr.Info().Str("username", DefaultAdminUsername).Msg("Default admin account created")
	return nil
}
