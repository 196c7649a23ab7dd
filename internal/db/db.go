// Package db opens the gorm connection for the configured engine and migrates the schema.
package db

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/idsync/internal/config"
	"github.com/GoPowerDNS-Admin/idsync/internal/db/dsn"
	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
	"github.com/GoPowerDNS-Admin/idsync/internal/logger/adapter/gormlogger"
)

// Supported values of config.DB.GormEngine.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

var (
	// ErrUnknownEngine is returned for an unsupported config.DB.GormEngine value.
	ErrUnknownEngine = errors.New("unknown gorm engine")

	// ErrConfigNil is returned when no database configuration was given.
	ErrConfigNil = errors.New("database config is nil")
)

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.DB) (gorm.Dialector, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	switch cfg.GormEngine {
	case EngineMySQL:
		return mysql.Open(dsn.MySQL(cfg)), nil
	case EnginePostgres:
		return postgres.Open(dsn.Postgres(cfg)), nil
	case EngineSQLite, "":
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.GormEngine)
	}
}

// Open connects to the configured database.
func Open(cfg *config.DB) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.New(log.Logger, cfg.SlowThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// sqlite serializes writers; a single connection also keeps :memory: databases intact
	if dialector.Name() == EngineSQLite {
		sqlDB, errDB := db.DB()
		if errDB != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", errDB)
		}

		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates the tables of all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.RoleAssignment{},
		&models.UserImage{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
