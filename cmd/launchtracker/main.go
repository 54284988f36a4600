package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"launchtracker/internal/config"
	"launchtracker/internal/handler"
	"launchtracker/internal/infra/observability"
	"launchtracker/internal/infra/sqlite"
	"launchtracker/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("database_path", cfg.DatabasePath),
		zap.String("cors_origin", cfg.CORSOrigin),
		zap.Bool("tracing_enabled", cfg.TracingOn),
		zap.Duration("jwt_ttl", cfg.JWTTTL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Tracing ---
	if cfg.TracingOn {
		shutdown, err := observability.InitTracer(ctx, cfg.OTLPEndpoint, "launchtracker")
		if err != nil {
			logger.Fatal("failed to init tracer", zap.Error(err))
		}
		defer shutdown(context.Background())
	}

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Storage ---
	store, err := sqlite.Open(cfg.DatabasePath, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer store.Close()

	// --- Services ---
	authSvc := service.NewAuthService(store, cfg.JWTSecret, cfg.JWTTTL, logger)
	planSvc := service.NewPlanService(store, logger)
	taskSvc := service.NewTaskService(store, planSvc, metrics, logger)
	kpiSvc := service.NewKpiService(store, planSvc, metrics, logger)
	contactSvc := service.NewContactService(store, planSvc, metrics, logger)
	contentSvc := service.NewContentService(store, store, planSvc, logger)
	reportSvc := service.NewReportService(store, store, store, store, store, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Services{
		Auth:     authSvc,
		Plans:    planSvc,
		Tasks:    taskSvc,
		Kpis:     kpiSvc,
		Contacts: contactSvc,
		Content:  contentSvc,
		Reports:  reportSvc,
	}, store, metrics, cfg.CORSOrigin, cfg.JWTTTL, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
