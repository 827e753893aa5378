package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/empdesk/internal/app/controllers"
	appMigrations "github.com/yigit/empdesk/internal/app/migrations"
	"github.com/yigit/empdesk/internal/app/models/dto"
	appRepos "github.com/yigit/empdesk/internal/app/repositories"
	appRoutes "github.com/yigit/empdesk/internal/app/routes"
	appServices "github.com/yigit/empdesk/internal/app/services"
	"github.com/yigit/empdesk/internal/config"
	"github.com/yigit/empdesk/internal/db"
	appMiddleware "github.com/yigit/empdesk/internal/middleware"
	pkgAuth "github.com/yigit/empdesk/internal/pkg/auth"
	"github.com/yigit/empdesk/internal/pkg/filestorage"
	"github.com/yigit/empdesk/internal/pkg/helpers"
	"github.com/yigit/empdesk/internal/pkg/logger"
	"github.com/yigit/empdesk/internal/seed"
)

// UploadsURLPrefix is the public path stored photos are served under
const UploadsURLPrefix = "/uploads"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config             *config.Config
	Database           *db.PostgresDB // nil for the memory driver
	Repos              *appRepos.Repositories
	FileStorage        *filestorage.LocalStorage
	JWTService         *pkgAuth.JWTService
	AuthService        *appServices.AuthService
	EmployeeService    appServices.EmployeeService
	AuthController     *appControllers.AuthController
	EmployeeController *appControllers.EmployeeController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Metrics            *appMiddleware.Metrics
	MetricsRegistry    *prometheus.Registry
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.EqualFold(cfg.Logging.Format, "text")

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL and applies migrations.
// It returns nil for the memory driver.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory storage, records are lost on restart")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := RunMigrations(ctx, database, lgr); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// RunMigrations applies the embedded SQL migrations
func RunMigrations(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Database: database, Logger: lgr}

	if database != nil {
		deps.Repos = appRepos.NewRepositories(database.Pool)
	} else {
		deps.Repos = appRepos.NewMemoryRepositories()
	}

	var storageOpts []filestorage.Option
	if cfg.Uploads.VerifyContent {
		storageOpts = append(storageOpts, filestorage.WithAllowedMimeTypes("image/jpeg", "image/png"))
	}
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, UploadsURLPrefix, storageOpts...)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		SessionExp:  helpers.ParseDuration(cfg.JWT.SessionExpiration, 12*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.AdminRepository,
		deps.Repos.SessionRepository,
		deps.JWTService,
		lgr,
	)
	deps.EmployeeService = appServices.NewEmployeeService(
		deps.Repos.EmployeeRepository,
		deps.FileStorage,
		lgr,
	)

	deps.MetricsRegistry = prometheus.NewRegistry()
	deps.MetricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = appMiddleware.NewMetrics(deps.MetricsRegistry)
	employeeRepo := deps.Repos.EmployeeRepository
	deps.Metrics.WithEmployeeCount(func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := employeeRepo.Count(ctx)
		if err != nil {
			return 0
		}
		return float64(n)
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.EmployeeController = appControllers.NewEmployeeController(
		deps.EmployeeService,
		deps.Metrics,
		cfg.MaxUploadBytes(),
	)

	return deps, nil
}

// SeedDefaults creates the configured admin account when missing
func SeedDefaults(ctx context.Context, cfg *config.Config, deps *Dependencies) error {
	return seed.CreateDefaultAdmin(ctx, deps.AuthService, cfg.Admin.Username, cfg.Admin.Password, deps.Logger)
}

// StartSessionCleanup deletes expired sessions every interval until ctx is done
func StartSessionCleanup(ctx context.Context, deps *Dependencies, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := deps.AuthService.CleanupSessions(ctx); err != nil {
					deps.Logger.Warn().Err(err).Msg("Session cleanup failed")
				}
			}
		}
	}()
}

// corsConfig allows the admin UI origins. An empty list allows any origin without credentials.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", appMiddleware.RequestIDHeader},
		ExposeHeaders: []string{appMiddleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.Recovery(lgr),
		appMiddleware.RequestLogger(lgr),
		deps.Metrics.Handler(),
		cors.New(corsConfig(cfg.Server.AllowedOrigins)),
	)

	router.Static(UploadsURLPrefix, deps.FileStorage.BasePath())

	router.GET("/health", func(c *gin.Context) {
		if err := deps.Database.Ping(c.Request.Context()); err != nil {
			lgr.Warn().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable", Storage: cfg.Database.Driver})
			return
		}
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Storage: cfg.Database.Driver})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{})))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.EmployeeController,
		deps.AuthMiddleware,
	)

	return router
}
