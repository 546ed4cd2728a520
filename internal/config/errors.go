package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptySecret error if no session token secret is configured.
	ErrEmptySecret = errors.New("auth.secret (NEXTAUTH_SECRET) can not be empty")

	// ErrEmptyAPIURL error if the internal API url is missing.
	ErrEmptyAPIURL = errors.New("api.url (API_URL) can not be empty")

	// ErrUnknownEngine error if db.gormEngine is not supported.
	ErrUnknownEngine = errors.New("db.gormEngine must be one of mysql, postgres, sqlite")
)

// ErrNilConfig error if no configuration is passed.
var ErrNilConfig = errors.New("config can not be nil")
