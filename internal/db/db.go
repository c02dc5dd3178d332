package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"room-booking-backend/config"
)

// FileSuffix is appended to the lowercased institution name to form the
// sqlite file name.
const FileSuffix = "_bookings.dat"

// ErrCorrupt is returned when an existing store cannot be read as a database.
var ErrCorrupt = errors.New("booking store is corrupt")

// FileName returns the storage file name used for an institution.
func FileName(institution string) string {
	return strings.ToLower(strings.TrimSpace(institution)) + FileSuffix
}

// Path returns the sqlite file path for an institution under cfg.Dir.
func Path(cfg *config.DatabaseConfig, institution string) string {
	return filepath.Join(cfg.Dir, FileName(institution))
}

// Init opens the configured database and runs migrations. A sqlite file that
// does not exist yet is created; one that exists but is not a database
// yields an error wrapping ErrCorrupt.
func Init(cfg *config.DatabaseConfig, institution string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", cfg.Dir, err)
		}
		dialector = sqlite.Open(Path(cfg, institution))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, classify(fmt.Errorf("failed to connect to database: %w", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, classify(err)
	}
	return db, nil
}

// Migrate creates or updates the booking schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&MetaRecord{},
		&ClientRecord{},
		&BookingRecord{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsCorrupt reports whether err comes from sqlite refusing to read the file.
func IsCorrupt(err error) bool {
	if errors.Is(err, ErrCorrupt) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrNotADB || sqliteErr.Code == sqlite3.ErrCorrupt
	}
	return false
}

func classify(err error) error {
	if IsCorrupt(err) && !errors.Is(err, ErrCorrupt) {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return err
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}
