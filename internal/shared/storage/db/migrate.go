package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"docintake/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies the embedded Postgres migrations that create the
// documents and email_history tables. A nil database is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, database, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	version, err := goose.GetDBVersion(database)
	if err == nil {
		telemetry.Info("db.migrated", map[string]any{"version": version})
	}
	return nil
}
