// Command seed fills an empty database with demo content.
package main

import (
	"context"
	"log/slog"
	"os"

	"chronicle/internal/cache"
	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/middleware"
	"chronicle/internal/seed"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Keep the web server's cached reads consistent with the seeded rows.
	cache.InitRedis(cfg.RedisURL)

	if err := seed.Run(context.Background(), db, cfg); err != nil {
		middleware.Logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
