package main

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

	"github.com/KunimitsuMk2/mogikintai/internal/config"
	appHTTP "github.com/KunimitsuMk2/mogikintai/internal/handler/http"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/database"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/jwt"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/logger"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/oauth"
	"github.com/KunimitsuMk2/mogikintai/internal/repository/postgresql"
	attendanceService "github.com/KunimitsuMk2/mogikintai/internal/service/attendance"
	serviceAuth "github.com/KunimitsuMk2/mogikintai/internal/service/auth"
	correctionService "github.com/KunimitsuMk2/mogikintai/internal/service/correction"
	reportService "github.com/KunimitsuMk2/mogikintai/internal/service/report"
	userService "github.com/KunimitsuMk2/mogikintai/internal/service/user"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel, cfg.App.Env, version)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("error running migrations: %w", err)
		}
	}

	loc := cfg.App.Location()

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	restTimeRepo := postgresql.NewRestTimeRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.IsProduction())
	GoogleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)

	authService := serviceAuth.NewAuthService(txManager, userRepo, JWTService, JWTRepository)
	attendanceSvc := attendanceService.NewAttendanceService(txManager, attendanceRepo, restTimeRepo, userRepo, loc, time.Now)
	correctionSvc := correctionService.NewCorrectionService(txManager, correctionRepo, attendanceRepo, restTimeRepo, loc, time.Now)
	reportSvc := reportService.NewReportService(attendanceSvc)
	userSvc := userService.NewUserService(userRepo)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         log,
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
		},
		JWTService,
		appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(JWTService, authService, GoogleService, cfg.App.FrontendURL, cfg.App.IsProduction()),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, correctionSvc),
			Correction: appHTTP.NewCorrectionHandler(correctionSvc),
			Admin:      appHTTP.NewAdminHandler(attendanceSvc, correctionSvc, reportSvc, userSvc),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "env", cfg.App.Env, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
