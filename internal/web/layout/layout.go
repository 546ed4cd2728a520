// Package layout composes page templates with the auth and root layouts.
//
// A page renders first, each layout then receives the markup rendered so far as .Content.
// The root layout is always the outermost one and provides the session and the toasts.
package layout

import (
	"bytes"
	"errors"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/datastore-web/datastore/internal/auth"
	"github.com/datastore-web/datastore/internal/web/session"
)

const (
	// Root is the outermost layout of every page.
	Root = "layouts/root"

	// Auth centers the unauthenticated flow pages.
	Auth = "layouts/auth"

	// Title of every page.
	Title = "Data Store"

	// Description of every page.
	Description = "Data Storage Service"
)

// ErrNoViews is returned when the fiber app has no template engine.
var ErrNoViews = errors.New("no views engine configured")

// RenderRoot renders page inside the root layout.
func RenderRoot(c *fiber.Ctx, page string, data fiber.Map) error {
	return Render(c, page, data, Root)
}

// RenderAuth renders page inside the auth layout inside the root layout.
func RenderAuth(c *fiber.Ctx, page string, data fiber.Map) error {
	return Render(c, page, data, Auth, Root)
}

// Render renders page and wraps it with layouts, innermost first.
func Render(c *fiber.Ctx, page string, data fiber.Map, layouts ...string) error {
	views := c.App().Config().Views
	if views == nil {
		return ErrNoViews
	}

	if data == nil {
		data = fiber.Map{}
	}

	data["Title"] = Title
	data["Description"] = Description
	data["Session"] = auth.CurrentSession(c)

	if session.Store != nil {
		data["Toasts"] = session.PopToasts(c)
	}

	var buf bytes.Buffer
	if err := views.Render(&buf, page, data); err != nil {
		return err //nolint:wrapcheck
	}

	for _, l := range layouts {
		data["Content"] = template.HTML(buf.String()) //nolint:gosec

		var wrapped bytes.Buffer
		if err := views.Render(&wrapped, l, data); err != nil {
			return err //nolint:wrapcheck
		}

		buf = wrapped
	}

	c.Type("html", "utf-8")

	return c.Send(buf.Bytes())
}
