package logout

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datastore-web/datastore/internal/db/models"
	"github.com/datastore-web/datastore/internal/web/handler/handlertest"
	"github.com/datastore-web/datastore/internal/web/session"
)

func TestLogout(t *testing.T) {
	env := handlertest.NewEnv(t)

	var s Service
	require.NoError(t, s.Init(env.App, env.Cfg, env.DB, env.Provider))

	u := env.CreateUser(t, "bob", "bob@example.com", models.RoleUser)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, Path, nil)
			req.AddCookie(handlertest.SessionCookie(t, u))

			resp := handlertest.Do(t, env.App, req)
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, redirectPath, resp.Header.Get(fiber.HeaderLocation))

			ck := resp.Cookie(handlertest.CookieName)
			require.NotNil(t, ck)
			assert.Empty(t, ck.Value)
			assert.NotNil(t, resp.Cookie(session.CookieName), "sign out toast is queued")
		})
	}
}

func TestLogout_WithoutSession(t *testing.T) {
	env := handlertest.NewEnv(t)

	var s Service
	require.NoError(t, s.Init(env.App, env.Cfg, env.DB, env.Provider))

	resp := handlertest.Get(t, env.App, Path)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Nil(t, resp.Cookie(session.CookieName))
}
