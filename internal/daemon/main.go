// Package daemon wires the database, the session storage and the web service together.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/datastore-web/datastore/internal/config"
	"github.com/datastore-web/datastore/internal/db/dsn"
	"github.com/datastore-web/datastore/internal/web"
	"github.com/datastore-web/datastore/internal/web/session"
)

const sessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	storage    fiber.Storage
	webService *web.Service
}

// Start serves until SIGINT or SIGTERM and then shuts down gracefully.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)
	log.Info().Str("addr", addr).Str("url", d.cfg.Webserver.URL).Msg("starting web service")

	err := d.webService.Start(addr)

	d.close()

	return err
}

func (d *Daemon) close() {
	if d.storage != nil {
		if err := d.storage.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close session storage")
		}
	}

	if sqlDB, err := d.db.DB(); err == nil {
		if err = sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
}

// OpenDB opens the database of the configured engine.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		dialector = gormmysql.Open(dsn.MySQL(cfg))
	case config.EnginePostgres:
		dialector = gormpostgres.Open(dsn.PostgresURI(cfg))
	case config.EngineSQLite, "":
		dialector = sqlite.Open(dsn.Create(cfg))
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownEngine, cfg.DB.GormEngine)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return db, nil
}

// SessionStorage returns the toast session storage of the configured engine.
// SQLite keeps sessions in memory and returns nil.
func SessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         sessionTable,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.PostgresURI(cfg),
			Table:         sessionTable,
		})
	default:
		return nil
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	if err = seed(cfg, db); err != nil {
		return nil, err
	}

	storage := SessionStorage(cfg)
	session.Init(storage, !cfg.DevMode)

	return &Daemon{
		cfg:        cfg,
		db:         db,
		storage:    storage,
		webService: web.New(cfg, db, nil, nil),
	}, nil
}
