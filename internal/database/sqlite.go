package database

import (
	"fmt"

	sqlite "github.com/glebarez/sqlite"
	"github.com/notepadhq/notepad/backend/internal/notes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OpenSQLite establishes a SQLite connection, bounds the connection pool and
// ensures the notes schema is present.
func OpenSQLite(path string, maxConnections int, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if maxConnections <= 0 {
		return nil, fmt.Errorf("max connections must be positive")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxConnections)
	sqlDB.SetMaxIdleConns(maxConnections)

	if err := db.AutoMigrate(&notes.Note{}); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized",
			zap.String("path", path),
			zap.Int("max_connections", maxConnections))
	}

	return db, nil
}
