// Package dashboard provides the landing page of signed-in users.
package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/datastore-web/datastore/internal/auth"
	"github.com/datastore-web/datastore/internal/config"
	"github.com/datastore-web/datastore/internal/web/handler"
	"github.com/datastore-web/datastore/internal/web/layout"
	authmiddleware "github.com/datastore-web/datastore/internal/web/middleware/auth"
	"github.com/datastore-web/datastore/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	provider *auth.Provider
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, provider *auth.Provider) error {
	if app == nil || cfg == nil || db == nil || provider == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.provider = provider

	app.Get(Path, provider.Authenticated(), s.Get)

	return nil
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	sess := auth.CurrentSession(c)

	nav := navigation.NewContext("Dashboard", Path).
		AddBreadcrumb("Home", handler.RootPath).
		AddBreadcrumb("Dashboard", Path).
		ForRole(sess.User.Role)

	log.Debug().Str("user_id", sess.User.ID).Msg("rendering dashboard")

	return layout.RenderRoot(c, TemplateName, fiber.Map{
		"Navigation": nav,
		"Profile":    authmiddleware.Profile(c),
	})
}
