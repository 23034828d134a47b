package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/app4080/eldercareserver/adapters"
	"github.com/app4080/eldercareserver/adapters/mongo"
	"github.com/app4080/eldercareserver/adapters/postgres"
	"github.com/app4080/eldercareserver/domain/repositories"
	"github.com/app4080/eldercareserver/internal/api"
	"github.com/app4080/eldercareserver/internal/auth"
	"github.com/app4080/eldercareserver/internal/config"
	"github.com/app4080/eldercareserver/usecase"
)

type stores struct {
	users        repositories.UserRepository
	patients     repositories.PatientRepository
	appointments repositories.AppointmentRepository
	reports      repositories.ProgressReportRepository
	close        func(ctx context.Context)
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		client, err := postgres.NewClient(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:        postgres.NewUserRepository(client.Pool, logger),
			patients:     postgres.NewPatientRepository(client.Pool, logger),
			appointments: postgres.NewAppointmentRepository(client.Pool, logger),
			reports:      postgres.NewProgressReportRepository(client.Pool, logger),
			close:        func(context.Context) { client.Close() },
		}, nil
	case config.StoreMongo:
		client, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, err
		}
		users, err := mongo.NewUserRepository(ctx, client.Database, logger)
		if err != nil {
			_ = client.Close(ctx)
			return nil, err
		}
		return &stores{
			users:        users,
			patients:     mongo.NewPatientRepository(client.Database, logger),
			appointments: mongo.NewAppointmentRepository(client.Database, logger),
			reports:      mongo.NewProgressReportRepository(client.Database, logger),
			close:        func(ctx context.Context) { _ = client.Close(ctx) },
		}, nil
	default:
		logger.Warn("Using in-memory store; data is lost on restart")
		return &stores{
			users:        adapters.NewMemoryUserRepository(),
			patients:     adapters.NewMemoryPatientRepository(),
			appointments: adapters.NewMemoryAppointmentRepository(),
			reports:      adapters.NewMemoryProgressReportRepository(),
			close:        func(context.Context) {},
		}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	// Initialize adapters
	st, err := openStores(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}

	// Initialize usecase services
	patientService := usecase.NewPatientService(st.patients, logger)
	services := api.Services{
		Users:        usecase.NewUserService(st.users, logger),
		Patients:     patientService,
		Appointments: usecase.NewAppointmentService(st.appointments, patientService, logger),
		Reports:      usecase.NewProgressReportService(st.reports, st.patients, st.users, logger),
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	loginLimiter := api.NewRateLimiter(cfg.LoginRatePerSecond, cfg.LoginBurst)
	defer loginLimiter.Close()

	// Initialize API routes
	api.InitRoutes(e, services, auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL), loginLimiter, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreDriver),
		zap.String("environment", cfg.Environment))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	st.close(ctx)

	logger.Info("Server exited")
}
