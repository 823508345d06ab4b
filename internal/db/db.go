package db

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nurse-triage-backend/config"
	"nurse-triage-backend/internal/model"
)

// Dialector picks the gorm driver from the DSN. "sqlite:" / "file:" prefixes
// and *.db paths use sqlite, everything else is treated as a postgres DSN.
func Dialector(dsn string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite:"))
	case strings.HasPrefix(dsn, "file:"), strings.HasSuffix(dsn, ".db"):
		return sqlite.Open(dsn)
	default:
		return postgres.Open(dsn)
	}
}

// Init opens the EHR database connection and optionally runs migrations.
func Init(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is empty")
	}

	db, err := gorm.Open(Dialector(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	if cfg.AutoMigrate {
		log.Info("running database migrations")
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	log.Info("database initialization complete")
	return db, nil
}

// Migrate creates the tables the monitor reads from.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.VitalSigns{}); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}
