package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chronicle/internal/config"
	"chronicle/internal/middleware"
	"chronicle/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		middleware.Logger.Error("failed to initialize server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app := srv.NewApp()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		middleware.Logger.Info("server listening", slog.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			middleware.Logger.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	middleware.Logger.Info("shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		middleware.Logger.Error("failed to shut down http server", slog.String("error", err.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		middleware.Logger.Error("failed to release resources", slog.String("error", err.Error()))
	}
}
