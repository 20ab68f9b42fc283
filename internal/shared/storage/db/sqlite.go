package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenSQLite opens (and creates, if needed) the SQLite database file at path.
// SQLite serializes writers, so the pool is pinned to a single connection.
func OpenSQLite(path string) (*gorm.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if dir := filepath.Dir(path); dir != "." && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return gdb, nil
}

// AutoMigrate creates or extends the tables for the given gorm models.
func AutoMigrate(gdb *gorm.DB, models ...any) error {
	if gdb == nil {
		return nil
	}
	if err := gdb.AutoMigrate(models...); err != nil {
		return fmt.Errorf("sqlite automigrate: %w", err)
	}
	return nil
}
