package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caravanpress/studio/internal/api"
	"github.com/caravanpress/studio/internal/metrics"
	"github.com/caravanpress/studio/pkg/studiogen"
	"github.com/caravanpress/studio/pkg/studiogen/config"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, err := cfg.BuildService(ctx, studiogen.WithMetrics(metrics.Recorder{}))
	if err != nil {
		slog.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(svc, api.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		MetricsHandler: metrics.Handler(),
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		slog.Info("studio server starting",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"provider", cfg.Provider,
			"asset_mode", cfg.AssetMode,
			"site_url", cfg.SiteURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exiting")
}
