package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/cchuang/regent/internal/app/controllers"
	appMigrations "github.com/cchuang/regent/internal/app/migrations"
	appRepos "github.com/cchuang/regent/internal/app/repositories"
	appRoutes "github.com/cchuang/regent/internal/app/routes"
	appServices "github.com/cchuang/regent/internal/app/services"
	"github.com/cchuang/regent/internal/config"
	"github.com/cchuang/regent/internal/db"
	appMiddleware "github.com/cchuang/regent/internal/middleware"
	pkgAuth "github.com/cchuang/regent/internal/pkg/auth"
	"github.com/cchuang/regent/internal/pkg/logger"
	"github.com/cchuang/regent/internal/pkg/validation"
	"github.com/cchuang/regent/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos    *appRepos.Repositories
	Services *appServices.Services

	AuthController       *appControllers.AuthController
	StudentController    *appControllers.StudentController
	TeacherController    *appControllers.TeacherController
	ClassController      *appControllers.ClassController
	DepartmentController *appControllers.DepartmentController
	UserController       *appControllers.UserController
	SearchController     *appControllers.SearchController

	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the bootstrap data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr, config.GetEnv("ADMIN_PASSWORD", "")); err != nil {
		// Startup proceeds; an operator can still create the account manually
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and
// middleware.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    cfg.TokenExpiry(),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(deps.Repos, dbPool, deps.JWTService)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.Services.Auth)
	deps.StudentController = appControllers.NewStudentController(deps.Services.Student)
	deps.TeacherController = appControllers.NewTeacherController(deps.Services.Teacher)
	deps.ClassController = appControllers.NewClassController(deps.Services.Class)
	deps.DepartmentController = appControllers.NewDepartmentController(deps.Services.Department)
	deps.UserController = appControllers.NewUserController(deps.Services.User)
	deps.SearchController = appControllers.NewSearchController(deps.Services.Search)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	if err := validation.RegisterBindingRules(); err != nil {
		lgr.Fatal().Err(err).Msg("Failed to register binding rules")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.CORS())

	appRoutes.SetupRouter(
		router,
		deps.AuthController,
		deps.StudentController,
		deps.TeacherController,
		deps.ClassController,
		deps.DepartmentController,
		deps.UserController,
		deps.SearchController,
		deps.AuthMiddleware,
	)

	return router
}
