// Package config handles input from etc/*.toml files and the environment.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// JSONOverrideEnv holds a JSON document merged over the file configuration.
const JSONOverrideEnv = "DATASTORE_CONFIG_JSON"

const (
	defaultShutDownTime = 5
	defaultExpiryTime   = 24 * time.Hour
	defaultRememberTTL  = 30 * 24 * time.Hour
	defaultCookieName   = "session-token"
	defaultAPITimeout   = 10 * time.Second
	defaultRateMax      = 10
	defaultRateWindow   = time.Minute
)

// envBindings maps config keys to the environment variables the web
// application has always been configured with.
var envBindings = map[string]string{ //nolint:gochecknoglobals
	"auth.secret": "NEXTAUTH_SECRET",
	"api.url":     "API_URL",
	"api.key":     "INTERNAL_API_KEY",
}

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(path + "main.toml")

	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return Config{}, errors.Wrap(err, "failed to bind env "+env)
		}
	}

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(JSONOverrideEnv)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the web service can not start without
// and fills in defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Auth.Secret == "" {
		return errors.Wrap(ErrEmptySecret, invalidErrMessage)
	}

	if c.API.URL == "" {
		return errors.Wrap(ErrEmptyAPIURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownEngine, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultExpiryTime
	}

	if c.Webserver.Session.RememberTTL == 0 {
		c.Webserver.Session.RememberTTL = defaultRememberTTL
	}

	if c.Webserver.Session.CookieName == "" {
		c.Webserver.Session.CookieName = defaultCookieName
	}

	if c.Webserver.RateLimit.Max == 0 {
		c.Webserver.RateLimit.Max = defaultRateMax
	}

	if c.Webserver.RateLimit.Expiration == 0 {
		c.Webserver.RateLimit.Expiration = defaultRateWindow
	}

	if c.API.Timeout == 0 {
		c.API.Timeout = defaultAPITimeout
	}

	return nil
}
