package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/SscSPs/bank_statements_svc/internal/adapters/clients"
	"github.com/SscSPs/bank_statements_svc/internal/adapters/lease"
	"github.com/SscSPs/bank_statements_svc/internal/core/services"
	"github.com/SscSPs/bank_statements_svc/internal/dto"
	"github.com/SscSPs/bank_statements_svc/internal/handlers"
	"github.com/SscSPs/bank_statements_svc/internal/middleware"
	"github.com/SscSPs/bank_statements_svc/internal/platform/config"
	"github.com/SscSPs/bank_statements_svc/internal/repositories/database/pgsql"
	"github.com/SscSPs/bank_statements_svc/internal/scheduler"
	"github.com/SscSPs/bank_statements_svc/pkg/database"
)

// @title Bank Statements API
// @version 1.0
// @description Monthly bank statement generation and CRUD microservice.

// @host localhost:8080
// @BasePath /v1/bankstatements

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := dto.RegisterCustomValidators(); err != nil {
		logger.Error("Failed to register custom validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, _ := limiter.NewRateFromFormatted("100-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)
	r.Use(middleware.RateLimit(ipLimiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Token decoding strategy: gateway-trust (unverified) by default, HMAC
	// verification when configured.
	var decoder middleware.TokenDecoder = middleware.UnverifiedDecoder{}
	if cfg.VerifyTokenSignature {
		decoder = middleware.HMACDecoder{Secret: []byte(cfg.JWTSecret)}
	}

	partners := clients.NewPartnerServices(cfg, logger)
	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewContainer(repos, partners, cfg)

	if cfg.SchedulerEnabled {
		var guard lease.Lease = lease.Noop{}
		if cfg.RedisURL != "" {
			redisLease, err := lease.NewRedisLease(cfg.RedisURL, logger)
			if err != nil {
				logger.Error("Failed to connect to Redis for the scheduler lease", slog.String("error", err.Error()))
				os.Exit(1)
			}
			defer redisLease.Close()
			guard = redisLease
		}

		sched := scheduler.New(func(ctx context.Context) (total, failed int) {
			results := serviceContainer.Generation.GenerateBulk(ctx)
			for _, res := range results {
				if res.Err != nil {
					failed++
				}
			}
			return len(results), failed
		}, guard, cfg.SchedulerLeaseTTL, logger)

		if err := sched.Start(); err != nil {
			logger.Error("Failed to start scheduler", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer sched.Stop()
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, decoder)

	// Run the server in a goroutine so shutdown signals can drain the
	// deferred cleanup (scheduler, pools) before the process exits.
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		errCh <- r.Run(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	case sig := <-quit:
		logger.Info("Shutting down", slog.String("signal", sig.String()))
	}
}

// runMigrations applies all pending "up" migrations with golang-migrate over
// a temporary database/sql connection.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
