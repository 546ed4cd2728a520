package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datastore-web/datastore/internal/db/models"
	"github.com/datastore-web/datastore/internal/profile"
	"github.com/datastore-web/datastore/internal/web/handler/handlertest"
	"github.com/datastore-web/datastore/internal/web/session"
)

type stubProfiles map[string]*profile.Profile

func (s stubProfiles) Fetch(_ context.Context, userID string) (*profile.Profile, error) {
	if p, ok := s[userID]; ok {
		return p, nil
	}

	return nil, profile.ErrUnexpectedStatus
}

func step(n int) *int { return &n }

func newTestService(t *testing.T, views fiber.Views) (*Service, *handlertest.Env) {
	t.Helper()

	env := handlertest.NewEnv(t)
	env.Cfg.Log.Console.Enabled = false

	onboarded := env.CreateUser(t, "done", "done@example.com", models.RoleUser)
	fresh := env.CreateUser(t, "fresh", "fresh@example.com", models.RoleUser)

	profiles := stubProfiles{
		idOf(onboarded): {OnboardingCompleted: true, OnboardingStep: step(3)},
		idOf(fresh):     {OnboardingStep: step(0)},
	}

	return New(env.Cfg, env.DB, profiles, views), env
}

func idOf(u *models.User) string {
	return strconv.FormatUint(u.ID, 10)
}

func userByName(t *testing.T, env *handlertest.Env, name string) *models.User {
	t.Helper()

	var u models.User
	require.NoError(t, env.DB.Where("username = ?", name).First(&u).Error)

	return &u
}

func TestNew_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { New(nil, nil, nil, nil) })
	assert.Panics(t, func() { New(handlertest.NewConfig(), nil, nil, nil) })
}

func TestService_Navigation(t *testing.T) {
	s, env := newTestService(t, handlertest.NoOpViews{})
	done := handlertest.SessionCookie(t, userByName(t, env, "done"))
	fresh := handlertest.SessionCookie(t, userByName(t, env, "fresh"))

	tests := []struct {
		name         string
		path         string
		cookie       *http.Cookie
		wantStatus   int
		wantLocation string
	}{
		{"root redirects anonymous to login", "/", nil, http.StatusFound, "/login"},
		{"dashboard redirects anonymous to login", "/dashboard", nil, http.StatusFound, "/login"},
		{"login is public", "/login", nil, http.StatusOK, ""},
		{"register is public", "/register", nil, http.StatusOK, ""},
		{"onboarding is public", "/onboarding", nil, http.StatusOK, ""},
		{"root goes to dashboard", "/", done, http.StatusFound, "/dashboard"},
		{"dashboard renders", "/dashboard", done, http.StatusOK, ""},
		{"login bounces to dashboard", "/login", done, http.StatusFound, "/dashboard"},
		{"register bounces to dashboard", "/register", done, http.StatusFound, "/dashboard"},
		{"login with trailing slash bounces to dashboard", "/login/", done, http.StatusFound, "/dashboard"},
		{"register with trailing slash is public", "/register/", nil, http.StatusOK, ""},
		{"fresh user goes to onboarding", "/dashboard", fresh, http.StatusFound, "/onboarding"},
		{"fresh user sees onboarding", "/onboarding", fresh, http.StatusOK, ""},
		{"api answers 401 without session", "/api/session", nil, http.StatusUnauthorized, ""},
		{"api skips onboarding redirect", "/api/session", fresh, http.StatusOK, ""},
		{"checkalive", CheckAlivePath, nil, http.StatusOK, ""},
		{"metrics", MetricsPath, nil, http.StatusOK, ""},
		{"static asset", "/static/css/app.css", nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookies []*http.Cookie
			if tt.cookie != nil {
				cookies = append(cookies, tt.cookie)
			}

			resp := handlertest.Get(t, s.App, tt.path, cookies...)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantLocation, resp.Header.Get(fiber.HeaderLocation))
		})
	}
}

func TestNew_InitializesToastStore(t *testing.T) {
	env := handlertest.NewEnv(t)
	env.Cfg.Log.Console.Enabled = false
	u := env.CreateUser(t, "done", "done@example.com", models.RoleUser)

	saved := session.Store
	session.Store = nil
	t.Cleanup(func() { session.Store = saved })

	s := New(env.Cfg, env.DB, stubProfiles{idOf(u): {OnboardingCompleted: true}}, handlertest.NoOpViews{})
	require.NotNil(t, session.Store)

	resp := handlertest.PostForm(t, s.App, "/logout", url.Values{}, handlertest.SessionCookie(t, u))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.NotNil(t, resp.Cookie(session.CookieName), "sign out toast is queued")
}

func TestService_LogoutDuringOnboarding(t *testing.T) {
	s, env := newTestService(t, handlertest.NoOpViews{})
	fresh := handlertest.SessionCookie(t, userByName(t, env, "fresh"))

	resp := handlertest.PostForm(t, s.App, "/logout", url.Values{}, fresh)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
}

func TestService_ProfileFailureClearsSession(t *testing.T) {
	s, env := newTestService(t, handlertest.NoOpViews{})

	ghost := env.CreateUser(t, "ghost", "ghost@example.com", models.RoleUser)

	resp := handlertest.Get(t, s.App, "/login", handlertest.SessionCookie(t, ghost))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))

	ck := resp.Cookie(handlertest.CookieName)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
}

func TestService_SignInFlow(t *testing.T) {
	s, _ := newTestService(t, handlertest.NoOpViews{})

	resp := handlertest.PostForm(t, s.App, "/login", url.Values{
		"email":    {"done@example.com"},
		"password": {handlertest.Password},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get(fiber.HeaderLocation))

	tokenCookie := resp.Cookie(handlertest.CookieName)
	require.NotNil(t, tokenCookie)
	assert.NotNil(t, resp.Cookie(session.CookieName), "welcome toast is queued")

	resp = handlertest.Get(t, s.App, "/dashboard", tokenCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestService_EmbeddedTemplates(t *testing.T) {
	s, env := newTestService(t, nil)
	done := handlertest.SessionCookie(t, userByName(t, env, "done"))

	resp := handlertest.Get(t, s.App, "/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, `<html lang="en" class="dark"`)
	assert.Contains(t, resp.Body, "<title>Data Store</title>")
	assert.Contains(t, resp.Body, `content="Data Storage Service"`)
	assert.Contains(t, resp.Body, `class="auth-layout"`)
	assert.Contains(t, resp.Body, `name="rememberMe"`)
	assert.Contains(t, resp.Body, "toaster-bottom-right")

	resp = handlertest.PostForm(t, s.App, "/register", url.Values{"username": {"x"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, "Username must be at least 3 characters")

	resp = handlertest.Get(t, s.App, "/dashboard", done)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, "done@example.com")
	assert.NotContains(t, resp.Body, "auth-layout")
}

func TestService_CheckAliveDuringShutdown(t *testing.T) {
	s, _ := newTestService(t, handlertest.NoOpViews{})
	assert.True(t, s.Alive())

	s.alive.Store(false)

	resp := handlertest.Get(t, s.App, CheckAlivePath)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
