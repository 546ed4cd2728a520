package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/datastore-web/datastore/internal/config"
	"github.com/datastore-web/datastore/internal/db/controller/user"
	"github.com/datastore-web/datastore/internal/db/models"
	"github.com/datastore-web/datastore/internal/schema"
	"github.com/datastore-web/datastore/internal/token"
)

// Provider issues, reads and clears sessions.
type Provider struct {
	cfg *config.Config
	db  *gorm.DB
}

// NewProvider creates a Provider.
func NewProvider(cfg *config.Config, db *gorm.DB) *Provider {
	return &Provider{cfg: cfg, db: db}
}

// Register creates a USER account from a validated registration form.
func (p *Provider) Register(form schema.Register) (*models.User, error) {
	hash, err := models.HashPassword(form.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Active:   true,
		Username: form.Username,
		Email:    form.Email,
		Password: hash,
		Role:     models.RoleUser,
	}

	if err = user.Create(p.db, u); err != nil {
		if errors.Is(err, user.ErrUserExists) {
			return nil, ErrUserExists
		}

		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info().Uint64("user_id", u.ID).Str("username", u.Username).Msg("user registered")

	return u, nil
}

// Authenticate checks email and password.
// Unknown email, wrong password and disabled account all return ErrInvalidCredentials.
func (p *Provider) Authenticate(email, password string) (*models.User, error) {
	u, err := user.GetByEmail(p.db, email)
	if errors.Is(err, user.ErrUserNotFound) {
		compareDummy(password)
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !u.Active || !u.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// compareDummy spends one Argon2id comparison so an unknown email
// costs the same as a wrong password.
func compareDummy(password string) {
	dummyOnce.Do(func() {
		hash, err := models.HashPassword("no-such-account")
		if err != nil {
			log.Error().Err(err).Msg("failed to create dummy password hash")
			return
		}

		dummyHash = hash
	})

	if dummyHash != "" {
		_, _ = argon2id.ComparePasswordAndHash(password, dummyHash)
	}
}

// SignIn issues a session token for u and sets the session cookie.
// With rememberMe the cookie outlives the browser session for Session.RememberTTL,
// otherwise the token expires after Session.ExpiryTime and the cookie with the browser.
func (p *Provider) SignIn(c *fiber.Ctx, u *models.User, rememberMe bool) (*Session, error) {
	ttl := p.cfg.Webserver.Session.ExpiryTime
	if rememberMe {
		ttl = p.cfg.Webserver.Session.RememberTTL
	}

	claims := token.ClaimsFor(u)

	raw, expires, err := token.Issue(p.cfg.Auth.Secret, claims, ttl)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	cookie := p.cookie(raw)
	if rememberMe {
		cookie.Expires = expires
		cookie.MaxAge = int(ttl.Seconds())
	}

	c.Cookie(cookie)

	s := sessionFromClaims(&claims)
	s.Expires = expires
	remember(c, s)

	return s, nil
}

// SignOut clears the session cookie.
func (p *Provider) SignOut(c *fiber.Ctx) {
	cookie := p.cookie("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)

	c.Cookie(cookie)
	c.Locals(LocalsSessionKey, nil)
}

func (p *Provider) cookie(value string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     p.cfg.Webserver.Session.CookieName,
		Value:    value,
		Path:     "/",
		Secure:   !p.cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// SeedAdmin creates the configured admin account when no account exists yet.
func SeedAdmin(db *gorm.DB, seed config.SeedAdmin) error {
	if seed.Password == "" || seed.Email == "" || seed.Username == "" {
		return nil
	}

	count, err := user.Count(db)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}

	if count > 0 {
		return nil
	}

	hash, err := models.HashPassword(seed.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &models.User{
		Active:   true,
		Username: seed.Username,
		Email:    seed.Email,
		Password: hash,
		Role:     models.RoleAdmin,
	}

	if err = user.Create(db, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	log.Info().Str("username", admin.Username).Msg("initial admin account created")

	return nil
}
