// Package handlertest holds the fixtures shared by the handler tests.
package handlertest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/datastore-web/datastore/internal/auth"
	"github.com/datastore-web/datastore/internal/config"
	"github.com/datastore-web/datastore/internal/db/dbtest"
	"github.com/datastore-web/datastore/internal/db/models"
	"github.com/datastore-web/datastore/internal/token"
	"github.com/datastore-web/datastore/internal/web/session"
)

const (
	// Secret signs the session tokens of the tests.
	Secret = "handler-test-secret"

	// CookieName of the session token in the tests.
	CookieName = "session-token"

	// Password of every user created by CreateUser.
	Password = "Str0ng!pass"
)

// NoOpViews is a minimal Fiber Views engine. Layouts write .Content, pages write
// the "Error" message, else the sorted field errors, else their template name.
type NoOpViews struct{}

// Load implements fiber.Views.
func (NoOpViews) Load() error { return nil }

// Render implements fiber.Views.
func (NoOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	m, _ := data.(fiber.Map)

	if strings.HasPrefix(name, "layouts/") {
		_, err := fmt.Fprint(w, m["Content"])
		return err //nolint:wrapcheck
	}

	if v, ok := m["Error"].(string); ok && v != "" {
		_, err := io.WriteString(w, v)
		return err //nolint:wrapcheck
	}

	if errs, ok := m["Errors"].(map[string]string); ok && len(errs) > 0 {
		parts := make([]string, 0, len(errs))
		for field, msg := range errs {
			parts = append(parts, field+": "+msg)
		}

		sort.Strings(parts)

		_, err := io.WriteString(w, strings.Join(parts, "\n"))

		return err //nolint:wrapcheck
	}

	_, err := io.WriteString(w, name)

	return err //nolint:wrapcheck
}

// NewConfig returns a config for handler tests.
func NewConfig() *config.Config {
	return &config.Config{
		Webserver: config.Webserver{
			URL:  "http://localhost",
			Port: 3000,
			Session: config.Session{
				ExpiryTime:  time.Hour,
				RememberTTL: 24 * time.Hour,
				CookieName:  CookieName,
			},
			RateLimit: config.RateLimit{Max: 100, Expiration: time.Minute},
		},
		Auth: config.Auth{Secret: Secret},
	}
}

// Env is a fiber app with a database and a session provider.
type Env struct {
	App      *fiber.App
	Cfg      *config.Config
	DB       *gorm.DB
	Provider *auth.Provider
}

// NewEnv creates an Env and a fresh in-memory toast store.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	session.Init(nil, false)

	cfg := NewConfig()
	db := dbtest.Open(t)

	return &Env{
		App:      fiber.New(fiber.Config{Views: NoOpViews{}}),
		Cfg:      cfg,
		DB:       db,
		Provider: auth.NewProvider(cfg, db),
	}
}

// CreateUser stores an active account with Password.
func (e *Env) CreateUser(t *testing.T, username, email string, role models.Role) *models.User {
	t.Helper()

	hash, err := models.HashPassword(Password)
	require.NoError(t, err)

	u := &models.User{Active: true, Username: username, Email: email, Password: hash, Role: role}
	require.NoError(t, e.DB.Create(u).Error)

	return u
}

// SessionCookie returns a valid session cookie for u.
func SessionCookie(t *testing.T, u *models.User) *http.Cookie {
	t.Helper()

	raw, _, err := token.Issue(Secret, token.ClaimsFor(u), time.Hour)
	require.NoError(t, err)

	return &http.Cookie{Name: CookieName, Value: raw}
}

// Response is a read http response.
type Response struct {
	*http.Response
	Body string
}

// Cookie returns the response cookie called name, or nil.
func (r *Response) Cookie(name string) *http.Cookie {
	for _, ck := range r.Cookies() {
		if ck.Name == name {
			return ck
		}
	}

	return nil
}

// Do sends req through app and reads the answer.
func Do(t *testing.T, app *fiber.App, req *http.Request) *Response {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return &Response{Response: resp, Body: string(b)}
}

// Get sends a GET with cookies.
func Get(t *testing.T, app *fiber.App, target string, cookies ...*http.Cookie) *Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	return Do(t, app, req)
}

// PostForm sends an url encoded form with cookies.
func PostForm(t *testing.T, app *fiber.App, target string, form url.Values, cookies ...*http.Cookie) *Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	return Do(t, app, req)
}
