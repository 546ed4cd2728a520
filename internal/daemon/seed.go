package daemon

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/datastore-web/datastore/internal/auth"
	"github.com/datastore-web/datastore/internal/config"
	"github.com/datastore-web/datastore/internal/db/models"
)

// Migrate creates or updates the tables of the credential store.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	return nil
}

// seed creates the initial admin if the user table is empty.
func seed(cfg *config.Config, db *gorm.DB) error {
	if err := auth.SeedAdmin(db, cfg.Auth.SeedAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	return nil
}
