package database

import (
	"fmt"
	"strings"
	"time"

	"portfolio-site/internal/infra/store"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open picks the driver from the DSN: postgres:// or postgresql:// go to
// postgres, anything else is treated as a sqlite file or DSN.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "portfolio.db"
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if dialector.Name() == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db, nil
}

// Migrate creates the snapshot and draft tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(store.Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// InitDB opens and migrates the database and keeps it in DB.
func InitDB(dsn string) error {
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}
	DB = db
	zap.L().Info("database ready", zap.String("driver", db.Dialector.Name()))
	return nil
}
