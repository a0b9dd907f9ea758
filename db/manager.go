package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"atlas/config"
	"atlas/models"
)

// Connect opens the store from config and migrates the schema. The returned
// handle is the single shared store for the process and is threaded through
// service constructors rather than held as a package global.
func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = "atlas.db"
		}
		dialector = sqlite.Open(path)
	case "postgres", "":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
		)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Migrate keeps the schema in sync with the models. Also used directly by
// tests against in-memory sqlite.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.Pairing{},
		&models.Presence{},
		&models.Message{},
		&models.Poke{},
		&models.Memory{},
		&models.CalendarEvent{},
		&models.GameStat{},
	)
}
