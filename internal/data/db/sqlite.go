package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const defaultSQLitePath = "wellbeing.db"

func sqliteDSN(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultSQLitePath
	}
	if path == ":memory:" {
		return "file::memory:?cache=shared"
	}
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000&_foreign_keys=on"
}

// configureSQLite pins the pool to one connection; SQLite has a single writer.
func configureSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return nil
}
