// cmd/portal-server/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"insurance-portal/internal/api"
	"insurance-portal/internal/common/config"
	"insurance-portal/internal/common/database"
	"insurance-portal/internal/common/logger"
	"insurance-portal/internal/common/observability"
	"insurance-portal/internal/engine/benefits"
	"insurance-portal/internal/engine/comparison"
	"insurance-portal/internal/history"
	"insurance-portal/internal/models"
	"insurance-portal/internal/overrides"
	"insurance-portal/internal/ratetable"
	"insurance-portal/internal/report"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// loadProviders reads the manual-provider catalog. A missing catalog is not
// fatal; manual plans then start from an empty provider list.
func loadProviders(path string) ([]models.ManualProvider, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var providers []models.ManualProvider
	if err := json.Unmarshal(body, &providers); err != nil {
		return nil, fmt.Errorf("parsing provider catalog %s: %w", path, err)
	}
	return providers, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting portal server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("address", cfg.Server.Address),
	)

	obs := observability.New("portal-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Load datasets ---
	table, err := ratetable.Load(cfg.Data.RateTablePath)
	if err != nil {
		zapLog.Fatal("rate table load failed", zap.Error(err))
	}
	zapLog.Info("Rate table loaded", zap.Int("providers", len(table.Providers())))

	static, err := benefits.LoadStatic(cfg.Data.BenefitTemplatesPath)
	if err != nil {
		zapLog.Fatal("benefit templates load failed", zap.Error(err))
	}

	providers, err := loadProviders(cfg.Data.ProvidersPath)
	if err != nil {
		zapLog.Fatal("provider catalog load failed", zap.Error(err))
	}

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init PostgreSQL (report history) with retry, when enabled ---
	var historyStore *history.Store
	if cfg.History.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			// Test the connection with context
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		historyStore = history.NewStore(pg.DB, cfg.History.Retained, log)
		if err := historyStore.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("history schema setup failed", zap.Error(err))
		}
	} else {
		zapLog.Info("Report history disabled")
	}

	// --- Assemble the service ---
	store := overrides.NewRedisStore(redisClient.Client, log)
	overrideSvc := overrides.NewService(store, log)
	engine := comparison.NewEngine(table, benefits.NewResolver(static), log)
	assembler := report.NewAssembler()

	server := api.NewServer(engine, overrideSvc, historyStore, assembler, providers, obs, log)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
