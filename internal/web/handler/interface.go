package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/datastore-web/datastore/internal/auth"
	"github.com/datastore-web/datastore/internal/config"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB, provider *auth.Provider) error
}
