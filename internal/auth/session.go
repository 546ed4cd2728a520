package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/datastore-web/datastore/internal/db/models"
	accesslog "github.com/datastore-web/datastore/internal/logger/adapter/fiber"
	"github.com/datastore-web/datastore/internal/token"
)

// LocalsSessionKey is the fiber.Locals key of the decoded session.
const LocalsSessionKey = "session"

// User is the identity carried by a session.
type User struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// Session is the authenticated state of a request.
type Session struct {
	User    User      `json:"user"`
	Expires time.Time `json:"expires"`
}

func sessionFromClaims(claims *token.Claims) *Session {
	s := &Session{
		User: User{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  claims.Role,
		},
	}

	if claims.ExpiresAt != nil {
		s.Expires = claims.ExpiresAt.Time
	}

	return s
}

func remember(c *fiber.Ctx, s *Session) {
	c.Locals(LocalsSessionKey, s)
	c.Locals(accesslog.LocalsUserKey, s.User.ID)
}

// CurrentSession returns the session already decoded for this request, or nil.
func CurrentSession(c *fiber.Ctx) *Session {
	s, _ := c.Locals(LocalsSessionKey).(*Session)
	return s
}

// GetSession returns the session of the request, or nil when the request
// carries no token or an invalid one.
func (p *Provider) GetSession(c *fiber.Ctx) *Session {
	if s := CurrentSession(c); s != nil {
		return s
	}

	raw := token.FromRequest(c, p.cfg.Webserver.Session.CookieName)
	if raw == "" {
		return nil
	}

	claims, err := token.Decode(p.cfg.Auth.Secret, raw)
	if err != nil {
		log.Debug().Err(err).Str("path", c.Path()).Msg("ignoring session token")
		return nil
	}

	s := sessionFromClaims(claims)
	remember(c, s)

	return s
}

// RequireAuth returns the session of the request or ErrUnauthorized.
func (p *Provider) RequireAuth(c *fiber.Ctx) (*Session, error) {
	s := p.GetSession(c)
	if s == nil {
		return nil, ErrUnauthorized
	}

	return s, nil
}

// RequireRole returns the session when its role is one of roles, otherwise ErrUnauthorized.
func (p *Provider) RequireRole(c *fiber.Ctx, roles ...models.Role) (*Session, error) {
	s, err := p.RequireAuth(c)
	if err != nil {
		return nil, err
	}

	if !s.User.Role.In(roles...) {
		log.Warn().Str("user_id", s.User.ID).Str("role", string(s.User.Role)).
			Msg("user lacks required role")

		return nil, ErrUnauthorized
	}

	return s, nil
}

// Authenticated is Fiber middleware answering 401 for requests without a valid session.
func (p *Provider) Authenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := p.RequireAuth(c); err != nil {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		return c.Next()
	}
}

// RequireRoles is Fiber middleware answering 401 unless the session role is one of roles.
func (p *Provider) RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := p.RequireRole(c, roles...); err != nil {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		return c.Next()
	}
}
