package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"weatherbot.app/internal/config"
	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

// NewNotificationStore opens the store selected by STORAGE_TYPE
func NewNotificationStore(cfg *config.StorageConfig) (ports.NotificationStore, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("storage config cannot be nil", nil)
	}

	switch cfg.Type {
	case config.StorageTypeFile:
		store, err := NewJSONFileStore(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageTypeSQLite:
		db, err := InitDB(sqlite.Open(cfg.SQLitePath))
		if err != nil {
			return nil, err
		}
		return NewGormNotificationStore(db), nil
	case config.StorageTypePostgres:
		db, err := InitDB(postgres.Open(cfg.Postgres.GetDSN()))
		if err != nil {
			return nil, err
		}
		return NewGormNotificationStore(db), nil
	default:
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("unsupported storage type: %s", cfg.Type.String()), nil)
	}
}

// InitDB opens a connection and migrates the notifications table
func InitDB(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, errors.NewStoreIOError("connect to database", err)
	}

	if err := RunMigrations(db); err != nil {
		_ = CloseDB(db)
		return nil, err
	}
	return db, nil
}

func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&NotificationModel{}); err != nil {
		return errors.NewStoreIOError("migrate notifications table", err)
	}
	return nil
}

// CloseDB safely closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.NewStoreIOError("failed to get database instance", err)
	}
	if err := sqlDB.Close(); err != nil {
		return errors.NewStoreIOError("failed to close database", err)
	}
	return nil
}
