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

	"github.com/joho/godotenv"
	"github.com/teamdesk/platform/internal/app"
	"github.com/teamdesk/platform/internal/auth"
	"github.com/teamdesk/platform/internal/canvas"
	"github.com/teamdesk/platform/internal/guard"
	"github.com/teamdesk/platform/internal/infra"
	"github.com/teamdesk/platform/internal/report"
	"github.com/teamdesk/platform/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	// Load config
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	// Record store
	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	// Event publishing
	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()

	// Report canvas
	fileCanvas, err := canvas.NewFileCanvas(cfg.AssetsDir)
	if err != nil {
		return fmt.Errorf("open canvas: %w", err)
	}

	r := app.NewRouter(app.RouterDeps{
		Store:         backend.Store,
		Projections:   backend.Projections,
		Canvas:        fileCanvas,
		Events:        service.NewEventPublisher(producer, logger),
		JWTMgr:        auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry),
		Logger:        logger,
		Backend:       backend.Name,
		Health:        backend.Health,
		AssetsDir:     cfg.AssetsDir,
		Report:        report.GeneratorConfig{Club: cfg.ClubName, Category: cfg.Category},
		ReportLimiter: guard.NewReportLimiter(cfg.ReportRateLimit, cfg.ReportRateWindow),
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr, "backend", backend.Name)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
