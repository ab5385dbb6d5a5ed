package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/api"
	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/auth"
	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/config"
	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/core"
	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/logging"
	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbStore.Close()

	revoker, closeRevoker, err := newRevoker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRevoker()

	// Chat falls back to a canned reply when the backend cannot start.
	var model core.ModelClient
	model, err = core.NewModelClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("model client unavailable, chat will return a fallback reply",
			zap.String("backend", cfg.ModelBackend), zap.Error(err))
		model = core.UnavailableClient{Reason: err}
	}
	defer model.Close()

	userService := core.NewUserService(dbStore, logger)
	chatService := core.NewChatService(dbStore, model, logger)
	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(dbStore, userService, chatService, sessions, revoker, logger, cfg.CookieSecure)
	router := api.NewRouter(apiHandler, logger)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // model calls retry with delays
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", serverAddr),
			zap.String("model_backend", cfg.ModelBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("could not listen on %s: %w", serverAddr, err)
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exiting gracefully")
	return nil
}

// newRevoker uses Redis when REDIS_URL is set and an in-process set otherwise.
func newRevoker(ctx context.Context, cfg *config.Config, logger *zap.Logger) (auth.Revoker, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("tracking revoked sessions in memory")
		return auth.NewMemoryRevoker(), func() {}, nil
	}

	r, err := auth.NewRedisRevoker(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("tracking revoked sessions in redis")
	return r, func() {
		if err := r.Close(); err != nil {
			logger.Warn("failed to close redis client", zap.Error(err))
		}
	}, nil
}
