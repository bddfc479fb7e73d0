package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zoynulabedin/non-government-vote-count-result/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the configured database. SQLite is the default for
// single-node deployments; Postgres is selected with driver: postgres
// and a DSN.
func Init(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormLogger := logger.Default
	if !cfg.LogMode {
		gormLogger = gormLogger.LogMode(logger.Silent)
	}

	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "", "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		// pragmas go in the DSN: a one-shot Exec would only reach one
		// pooled connection, leaving FK enforcement off on the rest
		dsn := cfg.Path + "?_foreign_keys=1&_journal_mode=WAL&_synchronous=NORMAL"
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{Logger: gormLogger})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	// connection pool
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
