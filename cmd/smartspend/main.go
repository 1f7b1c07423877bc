package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartspend/internal/ai"
	"smartspend/internal/config"
	apphttp "smartspend/internal/http"
	applog "smartspend/internal/log"
	"smartspend/internal/services"
	"smartspend/internal/storage"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: "smartspend",
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var store storage.TransactionStore
	switch cfg.DataBackend {
	case "sqlite":
		s, err := storage.NewSnapshotStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize snapshot store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		store = s
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		store = storage.NewMemoryStore(nil)
		logger.Info("Initialized memory backend")
	}

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set - AI parsing and insights will degrade to soft failures")
	}
	gateway := ai.NewClient(ai.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.AITimeout,
	})

	svc := services.NewFinanceService(store, gateway, cfg.InsightCacheTTL)
	defer svc.Close()

	srv := apphttp.NewServer(":"+cfg.Port, svc)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = cfg.AITimeout + 5*time.Second // AI endpoints wait on the model
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting smartspend server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		svc.RunCacheJanitor(ctx, 10*time.Minute)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
