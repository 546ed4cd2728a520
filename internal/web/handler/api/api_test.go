package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datastore-web/datastore/internal/auth"
	"github.com/datastore-web/datastore/internal/db/controller/user"
	"github.com/datastore-web/datastore/internal/db/models"
	"github.com/datastore-web/datastore/internal/web/handler/handlertest"
)

type fixture struct {
	env                 *handlertest.Env
	admin, support, bob *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	env := handlertest.NewEnv(t)

	var s Service
	require.NoError(t, s.Init(env.App, env.Cfg, env.DB, env.Provider))

	return &fixture{
		env:     env,
		admin:   env.CreateUser(t, "admin", "admin@example.com", models.RoleAdmin),
		support: env.CreateUser(t, "support", "support@example.com", models.RoleSupport),
		bob:     env.CreateUser(t, "bob", "bob@example.com", models.RoleUser),
	}
}

func (f *fixture) putRole(t *testing.T, as *models.User, id, body string) *handlertest.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPut, UsersPath+"/"+id+"/role", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	if as != nil {
		req.AddCookie(handlertest.SessionCookie(t, as))
	}

	return handlertest.Do(t, f.env.App, req)
}

func TestSession(t *testing.T) {
	f := newFixture(t)

	resp := handlertest.Get(t, f.env.App, SessionPath)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized", resp.Body)

	resp = handlertest.Get(t, f.env.App, SessionPath, handlertest.SessionCookie(t, f.bob))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sess auth.Session
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &sess))
	assert.Equal(t, strconv.FormatUint(f.bob.ID, 10), sess.User.ID)
	assert.Equal(t, "bob@example.com", sess.User.Email)
	assert.Equal(t, models.RoleUser, sess.User.Role)
	assert.False(t, sess.Expires.IsZero())
}

func TestListUsers_Access(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		as         *models.User
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"user", f.bob, http.StatusUnauthorized},
		{"support", f.support, http.StatusOK},
		{"admin", f.admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookies []*http.Cookie
			if tt.as != nil {
				cookies = append(cookies, handlertest.SessionCookie(t, tt.as))
			}

			resp := handlertest.Get(t, f.env.App, UsersPath, cookies...)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Unauthorized", resp.Body)
			}
		})
	}
}

func TestListUsers_Paging(t *testing.T) {
	f := newFixture(t)
	cookie := handlertest.SessionCookie(t, f.admin)

	resp := handlertest.Get(t, f.env.App, UsersPath+"?page=2&pageSize=2", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list UserList
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &list))
	assert.Equal(t, int64(3), list.Total)
	assert.Equal(t, 2, list.Page)
	require.Len(t, list.Users, 1)
	assert.Equal(t, "bob", list.Users[0].Username)
	assert.NotContains(t, resp.Body, "argon2id", "password hashes never leave the server")

	resp = handlertest.Get(t, f.env.App, UsersPath+"?page=0&pageSize=1000", cookie)
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &list))
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, DefaultPageSize, list.PageSize)
	assert.Len(t, list.Users, 3)
}

func TestSetRole(t *testing.T) {
	f := newFixture(t)
	bobID := strconv.FormatUint(f.bob.ID, 10)

	tests := []struct {
		name       string
		as         *models.User
		id         string
		body       string
		wantStatus int
	}{
		{"anonymous", nil, bobID, `{"role":"SUPPORT"}`, http.StatusUnauthorized},
		{"support may not", f.support, bobID, `{"role":"SUPPORT"}`, http.StatusUnauthorized},
		{"bad id", f.admin, "abc", `{"role":"SUPPORT"}`, http.StatusBadRequest},
		{"missing role", f.admin, bobID, `{}`, http.StatusBadRequest},
		{"unknown role", f.admin, bobID, `{"role":"ROOT"}`, http.StatusBadRequest},
		{"unknown user", f.admin, "999", `{"role":"SUPPORT"}`, http.StatusNotFound},
		{"admin promotes", f.admin, bobID, `{"role":"SUPPORT"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.putRole(t, tt.as, tt.id, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode, resp.Body)
		})
	}

	u, err := user.GetByID(f.env.DB, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSupport, u.Role)
}
