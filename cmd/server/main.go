// cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"opera-backend/internal/common/config"
	"opera-backend/internal/common/database"
	"opera-backend/internal/common/logger"
	"opera-backend/internal/common/observability"
	"opera-backend/internal/server"
	"opera-backend/internal/store"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting opera backend...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init MySQL with retry ---
	var db *database.MySQLClient
	err = retryWithBackoff(func() error {
		var err error
		db, err = database.NewMySQL(cfg.Database.MySQL)
		if err != nil {
			return err
		}
		return db.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "MySQL connection")
	if err != nil {
		zapLog.Fatal("mysql failed after retries", zap.Error(err))
	}
	defer db.Close()
	zapLog.Info("MySQL connected successfully")

	if err := db.EnsureCakesTable(ctx); err != nil {
		zapLog.Fatal("cakes table bootstrap failed", zap.Error(err))
	}

	stores := server.Stores{
		Orders:     store.NewOrderStore(db.DB, log),
		Products:   store.NewProductStore(db.DB, log),
		Categories: store.NewCategoryStore(db.DB),
		Cakes:      store.NewCakeStore(db.DB),
		Users:      store.NewUserStore(db.DB),
	}

	api := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.New(cfg, log, stores, obs).Router(),
	}

	go func() {
		zapLog.Info("API server listening", zap.Int("port", cfg.Server.Port))
		if err := api.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Health/Metrics sidecar ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			status := "ok"
			code := http.StatusOK
			if err := db.Ping(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := api.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down API server", zap.Error(err))
	}

	zapLog.Info("Opera backend stopped gracefully")
}
