package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"facility-security-api/internal/config"
	"facility-security-api/internal/database"
	"facility-security-api/internal/handler"
	"facility-security-api/internal/middleware"
	"facility-security-api/internal/repository"
	"facility-security-api/internal/router"
	"facility-security-api/internal/service"
)

type App struct {
	server *http.Server
	db     *database.DB
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)
	areaRepo := repository.NewAreaRepository(pool)
	accessLogRepo := repository.NewAccessLogRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)
	slog.Info("database ready")

	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	signer := service.NewTokenSigner(cfg.JWTSecret, cfg.JWTAccessTTL)

	if err := service.SeedAdmin(context.Background(), userRepo, hasher, cfg.SeedAdminPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	authService := service.NewAuthService(userRepo, tokenRepo, hasher, signer, cfg.RefreshTokenTTL)
	userService := service.NewUserService(userRepo, areaRepo, hasher)
	resourceService := service.NewResourceService(resourceRepo)
	areaService := service.NewAreaService(areaRepo, userRepo)
	accessLogService := service.NewAccessLogService(accessLogRepo, userRepo, areaRepo)
	dashboardService := service.NewDashboardService(dashboardRepo)

	guard := middleware.NewAuthMiddleware(authService)

	appRouter := router.New(cfg, guard, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Resource:  handler.NewResourceHandler(resourceService),
		Area:      handler.NewAreaHandler(areaService),
		AccessLog: handler.NewAccessLogHandler(accessLogService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{server: server, db: db}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.db.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.db.Close()
	slog.Info("server stopped")
	return nil
}
