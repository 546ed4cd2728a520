// Package login serves the sign-in page.
package login

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
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the name of the login template.
	TemplateName = "login"

	// MsgInvalidCredentials is shown for unknown emails, wrong passwords and disabled accounts alike.
	MsgInvalidCredentials = "Invalid email or password"

	// MsgSignedIn is the toast shown after a successful sign-in.
	MsgSignedIn = "Signed in successfully"

	successRedirect = "/dashboard"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	provider *auth.Provider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, provider *auth.Provider) error {
	if app == nil || cfg == nil || db == nil || provider == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.provider = provider

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, handler.FormLimiter(cfg.Webserver.RateLimit, s.tooManyRequests), s.Post)
	})

	return nil
}

func (s *Service) render(c *fiber.Ctx, form *schema.Signin, err error, message string) error {
	// never echo the password back
	form.Password = ""

	return layout.RenderAuth(c, TemplateName, handler.FormData(form, err, message))
}

func (s *Service) tooManyRequests(c *fiber.Ctx) error {
	return s.render(c, &schema.Signin{}, nil, handler.MsgTooManyRequests)
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, &schema.Signin{}, nil, "")
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(schema.Signin)

	if err := c.BodyParser(form); err != nil {
		log.Debug().Err(err).Msg("failed to parse login form")
		return s.render(c, form, nil, MsgInvalidCredentials)
	}

	if err := schema.Validate(form); err != nil {
		return s.render(c, form, err, "")
	}

	user, err := s.provider.Authenticate(form.Email, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Info().Str("email", form.Email).Str("ip", c.IP()).Msg("failed sign-in attempt")
			return s.render(c, form, nil, MsgInvalidCredentials)
		}

		log.Error().Err(err).Msg("failed to authenticate user")

		return s.render(c, form, nil, handler.MsgInternalServerError)
	}

	if _, err = s.provider.SignIn(c, user, form.RememberMe); err != nil {
		log.Error().Err(err).Msg("failed to issue session token")
		return s.render(c, form, nil, handler.MsgInternalServerError)
	}

	if err = session.AddToast(c, session.ToastSuccess, MsgSignedIn); err != nil {
		log.Error().Err(err).Msg("failed to queue toast")
	}

	log.Info().Uint64("user_id", user.ID).Bool("remember_me", form.RememberMe).Msg("user signed in")

	return c.Redirect(successRedirect)
}
