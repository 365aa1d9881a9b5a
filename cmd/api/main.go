package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nate123456/proof-editor-sub008/infrastructure/config"
	"github.com/nate123456/proof-editor-sub008/infrastructure/di"
	"github.com/nate123456/proof-editor-sub008/interfaces/http/rest"
	"github.com/nate123456/proof-editor-sub008/pkg/observability"
)

func main() {
	// Stop on interrupt or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, cleanup, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	var collector *observability.Collector
	if cfg.EnableMetrics {
		collector = container.Collector
	}

	// Create router
	router := rest.NewRouter(
		container.CommandBus,
		container.QueryBus,
		collector,
		container.Tracer,
		container.RateLimiter,
		cfg,
		container.Logger,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  4 * cfg.ReadTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.Strings("config_sources", cfg.LoadedFrom),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			container.Logger.Error("Server failed", zap.Error(err))
		}
	}

	// Graceful shutdown
	container.Logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	// Sync errors on stderr are expected and not worth reporting
	_ = container.Logger.Sync()

	log.Println("Server stopped")
}
