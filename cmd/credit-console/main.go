// cmd/credit-console/main.go
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

	"go.uber.org/zap"

	"credit-console/internal/common/config"
	"credit-console/internal/common/logger"
	"credit-console/internal/common/observability"
	"credit-console/internal/gateway"
	"credit-console/internal/server"
	"credit-console/internal/session"
	"credit-console/internal/theme"
	"credit-console/internal/workflows/prediction"
	"credit-console/pkg/registry"
)

const sweepInterval = time.Minute

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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting credit console...", zap.Stringer("config", cfg))

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Theme stores (redis is retried, file and memory open immediately) ---
	var (
		themes     theme.Stores
		closeStore func() error
	)
	err = retryWithBackoff(func() error {
		var err error
		themes, closeStore, err = theme.OpenStores(ctx, cfg)
		return err
	}, 5, time.Second, zapLog, "Theme store initialization")
	if err != nil {
		zapLog.Fatal("theme store failed after retries", zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			zapLog.Error("Error closing theme store", zap.Error(err))
		}
	}()

	reg := registry.Default()
	if cfg.Registry.Path != "" {
		reg, err = registry.LoadRegistry(cfg.Registry.Path)
		if err != nil {
			zapLog.Fatal("screen registry load failed", zap.String("path", cfg.Registry.Path), zap.Error(err))
		}
	}

	gw := gateway.New(cfg.Backend, log)
	workflow := prediction.NewHandler(prediction.LoadConfig(), gw, obs, log)
	sessions := session.NewStore(gw, time.Duration(cfg.Server.SessionTTL)*time.Minute, log)

	if cfg.Demo.Enabled {
		zapLog.Warn("demo login-as route is enabled; it performs no authentication")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           server.New(cfg, sessions, themes, gw, workflow, reg, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("Console server listening", zap.String("addr", cfg.Server.Address), zap.String("backend", cfg.Backend.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("console server failed", zap.Error(err))
		}
	}()

	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					log.Debug("expired sessions removed", map[string]interface{}{"count": n})
				}
			case <-sweepDone:
				return
			}
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	close(sweepDone)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down server", zap.Error(err))
	}

	zapLog.Info("Credit console stopped")
}
