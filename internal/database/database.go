package database

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/travel-desk/agency-api/internal/config"
	"github.com/travel-desk/agency-api/internal/models"
	"github.com/travel-desk/agency-api/internal/service"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteScheme = "sqlite://"

// Dialector picks the gorm driver for a database URL. postgresql:// URLs go to
// postgres; sqlite:///path and bare paths go to sqlite.
func Dialector(url string) (gorm.Dialector, error) {
	url = config.NormalizeDatabaseURL(url)
	switch {
	case strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	case strings.HasPrefix(url, sqliteScheme):
		path := strings.TrimPrefix(url, sqliteScheme)
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			return nil, fmt.Errorf("sqlite url %q has no path", url)
		}
		return sqlite.Open(path), nil
	case strings.Contains(url, "://"):
		return nil, fmt.Errorf("unsupported database url scheme in %q", url)
	default:
		return sqlite.Open(url), nil
	}
}

// Open opens the database, enables sqlite foreign keys and migrates the schema.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if dialector.Name() == "sqlite" {
		// One connection keeps PRAGMA foreign_keys in effect and makes
		// :memory: databases usable from every query.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.Account{}, &models.Destination{}, &models.Package{}, &models.Booking{})
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func Connect(cfg *config.Config) *gorm.DB {
	dialector, err := Dialector(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Invalid database url: %v", err)
	}

	db, err := Open(dialector)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := SeedAdmin(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	return db
}

// SeedAdmin creates the administrator account if no account with that
// username exists. The seeded account must change its password on first login.
func SeedAdmin(db *gorm.DB, username, password string) error {
	var existing models.Account
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.Account{
		Username:           username,
		PasswordHash:       hash,
		Role:               models.RoleAdmin,
		MustChangePassword: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin account %q; its password must be changed on first login", username)
	return nil
}
