package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/datastore-web/datastore/internal/auth"
	"github.com/datastore-web/datastore/internal/config"
	accesslog "github.com/datastore-web/datastore/internal/logger/adapter/fiber"
	"github.com/datastore-web/datastore/internal/profile"
	"github.com/datastore-web/datastore/internal/web/handler"
	"github.com/datastore-web/datastore/internal/web/handler/api"
	"github.com/datastore-web/datastore/internal/web/handler/dashboard"
	"github.com/datastore-web/datastore/internal/web/handler/login"
	"github.com/datastore-web/datastore/internal/web/handler/logout"
	"github.com/datastore-web/datastore/internal/web/handler/onboarding"
	"github.com/datastore-web/datastore/internal/web/handler/register"
	authmiddleware "github.com/datastore-web/datastore/internal/web/middleware/auth"
	"github.com/datastore-web/datastore/internal/web/session"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic, 503 during shutdown.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	Provider     *auth.Provider
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error)

	go func() {
		err := s.App.Listen(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("fiber listen error")
			doneFiber <- err

			return
		}

		doneFiber <- nil
	}()

	return <-doneFiber // wait for fiber to stop
}

// WaitShutdown waits for SIGINT or SIGTERM and stops the service gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown fails the check alive endpoint for ShutDownTime seconds, then stops the http server.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether the service accepts traffic.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

func newTemplateEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	return templateEngine
}

// New creates a new web service with the given configuration.
// A nil profiles uses the user API client of cfg.API, nil views the embedded templates.
func New(cfg *config.Config, db *gorm.DB, profiles profile.Fetcher, views fiber.Views) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if profiles == nil {
		profiles = profile.NewClient(cfg.API)
	}

	if views == nil {
		views = newTemplateEngine(cfg)
	}

	// toasts stay in memory unless the daemon configured a storage
	if session.Store == nil {
		session.Init(nil, !cfg.DevMode)
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          views,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	service := &Service{
		App:          app,
		Provider:     auth.NewProvider(cfg, db),
		cfg:          cfg,
		db:           db,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// navigation middleware; logout stays reachable in every session state
	app.Use(authmiddleware.New(authmiddleware.Config{
		Next:     func(c *fiber.Ctx) bool { return strings.TrimSuffix(c.Path(), "/") == logout.Path },
		Sessions: service.Provider,
		Profiles: profiles,
	}))

	// init handlers (they register their own routes)
	for _, h := range []handler.Service{
		&login.Handler,
		&register.Handler,
		&logout.Handler,
		&onboarding.Handler,
		&dashboard.Handler,
		&api.Handler,
	} {
		if err := h.Init(app, cfg, db, service.Provider); err != nil {
			log.Fatal().Err(err).Msg(handler.ErrNilACDFatalLogMsg)
		}
	}

	// redirect root to dashboard
	app.Get(handler.RootPath, func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service
}
