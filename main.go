package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schoolattendance/backend/internal/config"
	"github.com/schoolattendance/backend/internal/httpapi"
	"github.com/schoolattendance/backend/internal/logger"
	"github.com/schoolattendance/backend/pkg/attendance"
	"github.com/schoolattendance/backend/pkg/auth"
	"github.com/schoolattendance/backend/pkg/db"
	"github.com/schoolattendance/backend/pkg/school"
)

func main() {
	if err := run(); err != nil {
		logger.LogError("Server exited with error", err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup so none is skipped by os.Exit.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.InitWithLevel(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.NewDB(ctx, cfg.DatabaseURL, db.WithMaxConns(cfg.DBMaxConns))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	srv := httpapi.NewServer(httpapi.Options{
		Auth:              auth.NewService(auth.NewPostgresStore(conn)),
		Tokens:            auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Attendance:        attendance.NewRepository(attendance.NewPostgresStore(conn)),
		Schools:           school.NewPostgresDirectory(conn),
		Health:            conn,
		Metrics:           httpapi.NewMetrics(),
		AllowedOrigins:    cfg.AllowedOrigins,
		LoginRateLimit:    cfg.LoginRateLimit,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.LogInfo("Starting server", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.LogInfo("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
