package config

import (
	"time"

	"github.com/datastore-web/datastore/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime  time.Duration // token lifetime without "remember me"
	RememberTTL time.Duration // token and cookie lifetime with "remember me"
	CookieName  string        // name of the session token cookie
}

// SeedAdmin is the account created when the user table is empty.
type SeedAdmin struct {
	Username string
	Email    string
	Password string
}

// Auth holds the session provider settings.
type Auth struct {
	Secret    string // signing secret of the session token (NEXTAUTH_SECRET)
	SeedAdmin SeedAdmin
}

// API holds the settings of the internal user API.
type API struct {
	URL     string        // base url of the internal API (API_URL)
	Key     string        // static bearer credential (INTERNAL_API_KEY)
	Timeout time.Duration // timeout of a single profile fetch
}

// RateLimit settings for the login and register form posts.
type RateLimit struct {
	Max        int
	Expiration time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
	API       API
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool      // enable static file browsing (for development purposes only)
	DisableRecover bool      // disable recover middleware
	Domain         string    // domain name for the webserver
	Port           int       // listening port for the webserver
	ShutDownTime   int       // wait time for shutdown
	URL            string    // base url for the webserver
	Session        Session   // session settings
	RateLimit      RateLimit // form post rate limit
}
