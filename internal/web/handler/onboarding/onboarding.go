// Package onboarding serves the first page of users that have not set up their account yet.
package onboarding

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/datastore-web/datastore/internal/auth"
	"github.com/datastore-web/datastore/internal/config"
	"github.com/datastore-web/datastore/internal/db/models"
	"github.com/datastore-web/datastore/internal/web/handler"
	"github.com/datastore-web/datastore/internal/web/layout"
	authmiddleware "github.com/datastore-web/datastore/internal/web/middleware/auth"
	"github.com/datastore-web/datastore/internal/web/navigation"
)

const (
	// Path is the path to the onboarding page.
	Path = handler.RootPath + "onboarding"

	// TemplateName is the name of the onboarding template.
	TemplateName = "onboarding"
)

// Service is the onboarding handler service.
type Service struct {
	handler.Service
	provider *auth.Provider
}

// Handler is the onboarding handler.
var Handler = Service{}

// Init initializes the onboarding handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, provider *auth.Provider) error {
	if app == nil || cfg == nil || db == nil || provider == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.provider = provider

	app.Get(Path, s.Get)

	return nil
}

// Get renders the onboarding page. The page is public, a session only personalizes it.
func (s *Service) Get(c *fiber.Ctx) error {
	var role models.Role
	if sess := s.provider.GetSession(c); sess != nil {
		role = sess.User.Role
	}

	data := fiber.Map{
		"Navigation": navigation.NewContext("Welcome", Path).ForRole(role),
	}

	if p := authmiddleware.Profile(c); p != nil {
		data["Profile"] = p
		data["Step"] = p.Step()
	}

	return layout.RenderRoot(c, TemplateName, data)
}
