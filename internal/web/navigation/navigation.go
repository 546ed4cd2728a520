// Package navigation builds the breadcrumbs and the role filtered menu of a page.
package navigation

import "github.com/datastore-web/datastore/internal/db/models"

// Breadcrumb is a single breadcrumb link. Only the last one is active.
type Breadcrumb struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem is a top bar link. An item without roles is shown to everyone.
type MenuItem struct {
	Title string
	URL   string
	Roles []models.Role
}

// Menu lists every top bar link.
var Menu = []MenuItem{ //nolint:gochecknoglobals
	{Title: "Dashboard", URL: "/dashboard"},
	{Title: "Users", URL: "/api/admin/users", Roles: []models.Role{models.RoleAdmin, models.RoleSupport}},
}

// Context is the navigation state of a page.
type Context struct {
	PageTitle   string
	ActiveURL   string
	Breadcrumbs []Breadcrumb
	Menu        []MenuItem
}

// NewContext creates the navigation of the page at activeURL.
func NewContext(pageTitle, activeURL string) *Context {
	return &Context{
		PageTitle:   pageTitle,
		ActiveURL:   activeURL,
		Breadcrumbs: make([]Breadcrumb, 0, 2),
	}
}

// AddBreadcrumb appends a breadcrumb and makes it the active one.
func (c *Context) AddBreadcrumb(title, url string) *Context {
	for i := range c.Breadcrumbs {
		c.Breadcrumbs[i].Active = false
	}

	c.Breadcrumbs = append(c.Breadcrumbs, Breadcrumb{Title: title, URL: url, Active: true})

	return c
}

// ForRole keeps the menu items visible to role.
func (c *Context) ForRole(role models.Role) *Context {
	c.Menu = c.Menu[:0]

	for _, item := range Menu {
		if len(item.Roles) == 0 || role.In(item.Roles...) {
			c.Menu = append(c.Menu, item)
		}
	}

	return c
}

// IsActive reports whether url is the current page.
func (c *Context) IsActive(url string) bool {
	return c.ActiveURL == url
}
