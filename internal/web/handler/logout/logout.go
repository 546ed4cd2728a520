// Package logout ends the session of the browser.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/datastore-web/datastore/internal/auth"
	"github.com/datastore-web/datastore/internal/config"
	"github.com/datastore-web/datastore/internal/web/handler"
	"github.com/datastore-web/datastore/internal/web/session"
)

const (
	// Path is the path of the logout route.
	Path = handler.RootPath + "logout"

	// MsgSignedOut is the toast shown on the login page after logout.
	MsgSignedOut = "You have been signed out"

	redirectPath = "/login"
)

// Service is the logout handler service.
type Service struct {
	handler.Service
	provider *auth.Provider
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, provider *auth.Provider) error {
	if app == nil || cfg == nil || db == nil || provider == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.provider = provider

	// reachable with any session state, the navigation middleware skips it
	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout handles user logout by clearing the session cookie.
func (s *Service) Logout(c *fiber.Ctx) error {
	if sess := s.provider.GetSession(c); sess != nil {
		log.Info().Str("user_id", sess.User.ID).Msg("user signed out")

		if err := session.AddToast(c, session.ToastInfo, MsgSignedOut); err != nil {
			log.Error().Err(err).Msg("failed to queue toast")
		}
	}

	s.provider.SignOut(c)

	return c.Redirect(redirectPath)
}
