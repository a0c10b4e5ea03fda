package v1

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gov-dx-sandbox/home-inventory/shared/utils"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds GORM database connection configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	Username        string
	Password        string
	Database        string
	SSLMode         string
	SQLitePath      string
	RunMigration    bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// NewDatabaseConfig creates a new GORM database configuration from the environment
func NewDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Driver:          utils.GetEnvOrDefault("DB_DRIVER", DriverPostgres),
		Host:            utils.GetEnvOrDefault("DB_HOST", "localhost"),
		Port:            utils.GetEnvOrDefault("DB_PORT", "5432"),
		Username:        utils.GetEnvOrDefault("DB_USERNAME", "postgres"),
		Password:        utils.GetEnvOrDefault("DB_PASSWORD", "password"),
		Database:        utils.GetEnvOrDefault("DB_NAME", "home_inventory"),
		SSLMode:         utils.GetEnvOrDefault("DB_SSLMODE", "disable"),
		SQLitePath:      utils.GetEnvOrDefault("SQLITE_PATH", "home-inventory.db"),
		RunMigration:    utils.GetEnvBoolOrDefault("RUN_MIGRATION", false),
		MaxOpenConns:    utils.GetEnvIntOrDefault("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    utils.GetEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// DSN builds the driver-specific connection string
func (c *DatabaseConfig) DSN() (string, error) {
	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode), nil
	case DriverSQLite:
		if c.SQLitePath == "" {
			return "", fmt.Errorf("SQLITE_PATH must not be empty when DB_DRIVER=sqlite")
		}
		return c.SQLitePath, nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q (supported: postgres, sqlite)", c.Driver)
	}
}

func (c *DatabaseConfig) dialector(dsn string) gorm.Dialector {
	if c.Driver == DriverSQLite {
		return sqlite.Open(dsn)
	}
	return postgres.Open(dsn)
}

// ConnectGormDB establishes a GORM connection and optionally runs migrations
func ConnectGormDB(config *DatabaseConfig) (*gorm.DB, error) {
	dsn, err := config.DSN()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(config.dialector(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Successfully connected to database with GORM",
		"driver", config.Driver,
		"host", config.Host,
		"database", config.Database)

	if config.RunMigration {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	} else {
		slog.Info("Database connected (migration skipped)")
	}

	return db, nil
}

// Migrate runs GORM auto-migration for every model
func Migrate(db *gorm.DB) error {
	slog.Info("Running GORM auto-migration")
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	slog.Info("GORM auto-migration completed successfully")
	return nil
}
