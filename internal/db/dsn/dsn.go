// Package dsn builds the data source names for the supported database engines.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/datastore-web/datastore/internal/config"
)

// Create builds the gorm Data Source Name for the configured engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return PostgresURI(cfg)
	case config.EngineSQLite:
		if cfg.DB.Extras == "" {
			return cfg.DB.Name
		}

		return cfg.DB.Name + "?" + cfg.DB.Extras
	default:
		return MySQL(cfg)
	}
}

// MySQL builds a go-sql-driver/mysql DSN, it is also accepted by the mysql session storage.
func MySQL(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
		cfg.DB.Extras,
	)
}

// PostgresURI builds a postgres:// URI understood by both gorm and the postgres session storage.
func PostgresURI(cfg *config.Config) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DB.User, cfg.DB.Password),
		Host:     net.JoinHostPort(cfg.DB.Host, strconv.Itoa(cfg.DB.Port)),
		Path:     "/" + cfg.DB.Name,
		RawQuery: cfg.DB.Extras,
	}

	return u.String()
}
