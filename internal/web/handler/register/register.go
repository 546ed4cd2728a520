// Package register serves the account registration page.
package register

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/datastore-web/datastore/internal/auth"
	"github.com/datastore-web/datastore/internal/config"
	"github.com/datastore-web/datastore/internal/schema"
	"github.com/datastore-web/datastore/internal/web/handler"
	"github.com/datastore-web/datastore/internal/web/layout"
	"github.com/datastore-web/datastore/internal/web/session"
)

const (
	// Path is the path to the registration page.
	Path = "/register"

	// TemplateName is the name of the registration template.
	TemplateName = "register"

	// MsgUserExists is shown when the username or the email is taken.
	MsgUserExists = "An account with this username or email already exists"

	// MsgRegistered is the toast shown on the login page after registration.
	MsgRegistered = "Account created, please sign in"

	successRedirect = "/login"
)

// Service is the registration handler service.
type Service struct {
	handler.Service
	provider *auth.Provider
}

// Handler is the registration handler.
var Handler = Service{}

// Init initializes the registration handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, provider *auth.Provider) error {
	if app == nil || cfg == nil || db == nil || provider == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.provider = provider

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, handler.FormLimiter(cfg.Webserver.RateLimit, s.tooManyRequests), s.Post)
	})

	return nil
}

func (s *Service) render(c *fiber.Ctx, form *schema.Register, err error, message string) error {
	form.Password = ""
	form.ConfirmPassword = ""

	return layout.RenderAuth(c, TemplateName, handler.FormData(form, err, message))
}

func (s *Service) tooManyRequests(c *fiber.Ctx) error {
	return s.render(c, &schema.Register{}, nil, handler.MsgTooManyRequests)
}

// Get renders the registration page.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, &schema.Register{}, nil, "")
}

// Post handles the registration form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(schema.Register)

	if err := c.BodyParser(form); err != nil {
		log.Debug().Err(err).Msg("failed to parse registration form")
		return s.render(c, form, nil, handler.MsgInternalServerError)
	}

	if err := schema.Validate(form); err != nil {
		return s.render(c, form, err, "")
	}

	if _, err := s.provider.Register(*form); err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return s.render(c, form, nil, MsgUserExists)
		}

		log.Error().Err(err).Msg("failed to register user")

		return s.render(c, form, nil, handler.MsgInternalServerError)
	}

	if err := session.AddToast(c, session.ToastSuccess, MsgRegistered); err != nil {
		log.Error().Err(err).Msg("failed to queue toast")
	}

	return c.Redirect(successRedirect)
}
