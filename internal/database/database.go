package database

import (
	"fmt"
	"time"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/NDQnhat/realestatepro-api/internal/migrations"
	"github.com/NDQnhat/realestatepro-api/internal/models"
	"github.com/NDQnhat/realestatepro-api/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to the configured driver. References between collections are
// soft ids, so no foreign-key constraints are ever created.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "realestate.db"
		}
		dialector = sqlite.Open(dsn)
	case "", "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: underlying sql.DB: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		// concurrent count + page queries on several sqlite connections hit "table is locked"
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	return db, nil
}

// Connect opens the database from config.AppConfig and installs it as DB.
func Connect() {
	db, err := Open(config.AppConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	DB = db
	logger.Info().Str("driver", config.AppConfig.DBDriver).Msg("Connected to database (max: 25, idle: 10)")
}

// Migrate creates or updates every table, then applies the versioned index
// migrations.
func Migrate(db *gorm.DB) error {
	for _, m := range models.AllModels() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("database: migrate %T: %w", m, err)
		}
	}
	if _, err := migrations.NewMigrator(db).Run(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

// Ping reports whether the database answers.
func Ping(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database: not connected")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
