package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"docintake/internal/shared/config"
	"docintake/internal/shared/storage/db"
	"docintake/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer telemetry.Sync()
	ctx := context.Background()

	if cfg.DBDriver != "postgres" {
		telemetry.Info("migrate.skip", map[string]any{
			"driver": cfg.DBDriver,
			"reason": "sqlite tables are created on startup",
		})
		return
	}

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		os.Exit(1)
	}
}
