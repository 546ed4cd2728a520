// Package api serves the JSON routes: the current session and user administration.
//
// Every route answers 401 "Unauthorized" when the session is missing or its role is not allowed.
package api

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/datastore-web/datastore/internal/auth"
	"github.com/datastore-web/datastore/internal/config"
	"github.com/datastore-web/datastore/internal/db/controller/user"
	"github.com/datastore-web/datastore/internal/db/models"
	"github.com/datastore-web/datastore/internal/web/handler"
)

const (
	// SessionPath returns the session of the caller.
	SessionPath = handler.RootPath + "api/session"

	// UsersPath lists the accounts.
	UsersPath = handler.RootPath + "api/admin/users"

	// DefaultPageSize for pagination.
	DefaultPageSize = 25

	maxPageSize = 100
)

// UserList is the answer of the user listing.
type UserList struct {
	Users    []models.User `json:"users"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// RoleUpdate is the body of a role change.
type RoleUpdate struct {
	Role models.Role `json:"role" validate:"required"`
}

// Service serves the JSON routes.
type Service struct {
	handler.Service
	db        *gorm.DB
	provider  *auth.Provider
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, provider *auth.Provider) error {
	if app == nil || cfg == nil || db == nil || provider == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.provider = provider
	s.validator = validator.New()

	app.Get(SessionPath, s.Session)
	app.Get(UsersPath, provider.RequireRoles(models.RoleAdmin, models.RoleSupport), s.ListUsers)
	app.Put(UsersPath+"/:id/role", provider.RequireRoles(models.RoleAdmin), s.SetRole)

	return nil
}

// Session returns the session of the caller.
func (s *Service) Session(c *fiber.Ctx) error {
	sess, err := s.provider.RequireAuth(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(sess)
}

// ListUsers returns one page of accounts.
func (s *Service) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	pageSize := c.QueryInt("pageSize", DefaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = DefaultPageSize
	}

	total, err := user.Count(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")
		return fiber.ErrInternalServerError
	}

	users, err := user.List(s.db, (page-1)*pageSize, pageSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")
		return fiber.ErrInternalServerError
	}

	return c.JSON(UserList{Users: users, Total: total, Page: page, PageSize: pageSize})
}

// SetRole changes the role of an account.
func (s *Service) SetRole(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	body := new(RoleUpdate)
	if err = c.BodyParser(body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err = s.validator.Struct(body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "role is required")
	}

	u, err := user.SetRole(s.db, id, body.Role)

	switch {
	case errors.Is(err, user.ErrInvalidRole):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case err != nil:
		log.Error().Err(err).Uint64("user_id", id).Msg("failed to change role")
		return fiber.ErrInternalServerError
	}

	log.Info().Uint64("user_id", id).Str("role", string(u.Role)).
		Str("by", auth.CurrentSession(c).User.ID).Msg("user role changed")

	return c.JSON(u)
}
