package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/kazmirchuk/workshophub/internal/app/controllers"
	appMigrations "github.com/kazmirchuk/workshophub/internal/app/migrations"
	appRepos "github.com/kazmirchuk/workshophub/internal/app/repositories"
	appRoutes "github.com/kazmirchuk/workshophub/internal/app/routes"
	appServices "github.com/kazmirchuk/workshophub/internal/app/services"
	"github.com/kazmirchuk/workshophub/internal/config"
	"github.com/kazmirchuk/workshophub/internal/db"
	appMiddleware "github.com/kazmirchuk/workshophub/internal/middleware"
	pkgAuth "github.com/kazmirchuk/workshophub/internal/pkg/auth"
	"github.com/kazmirchuk/workshophub/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	EnrollmentService    appServices.EnrollmentService
	WorkshopService      appServices.WorkshopService
	GroupService         appServices.GroupService
	Notifier             *appServices.AsyncNotifier
	EnrollmentController *appControllers.EnrollmentController
	WorkshopController   *appControllers.WorkshopController
	GroupController      *appControllers.GroupController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
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

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.Notifier = appServices.NewAsyncNotifier(deps.Repos.NotificationRepository, lgr)

	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.Repos.UserRepository,
		deps.Repos.WorkshopRepository,
		deps.Repos.GroupRepository,
		deps.Repos.EnrollmentRepository,
		deps.Notifier,
		lgr,
	)
	deps.WorkshopService = appServices.NewWorkshopService(
		deps.Repos.WorkshopRepository,
		deps.Repos.GroupRepository,
		lgr,
	)
	deps.GroupService = appServices.NewGroupService(
		deps.Repos.GroupRepository,
		deps.Repos.WorkshopRepository,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.WorkshopController = appControllers.NewWorkshopController(deps.WorkshopService)
	deps.GroupController = appControllers.NewGroupController(deps.GroupService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.WorkshopController,
		deps.GroupController,
		deps.EnrollmentController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
