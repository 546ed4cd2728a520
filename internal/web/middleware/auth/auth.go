package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	authn "github.com/datastore-web/datastore/internal/auth"
	"github.com/datastore-web/datastore/internal/profile"
)

// Redirect targets and public pages.
const (
	LoginPath      = "/login"
	RegisterPath   = "/register"
	OnboardingPath = "/onboarding"
	DashboardPath  = "/dashboard"

	// LocalsProfileKey is the fiber.Locals key of the fetched profile.
	LocalsProfileKey = "profile"
)

// Decisions counted by the decisions metric.
const (
	DecisionSkip       = "skip"
	DecisionPass       = "pass"
	DecisionLogin      = "login"
	DecisionOnboarding = "onboarding"
	DecisionDashboard  = "dashboard"
)

var (
	publicPaths = map[string]struct{}{ //nolint:gochecknoglobals
		LoginPath:      {},
		RegisterPath:   {},
		OnboardingPath: {},
	}

	skipPrefixes = []string{"/static", "/_next", "/api", "/trpc", "/metrics", "/checkalive"} //nolint:gochecknoglobals

	decisions = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "auth_middleware_decisions_total",
			Help: "Navigation middleware decisions by outcome.",
		},
		[]string{"decision"},
	)
)

// Sessions reads and clears the session of a request.
type Sessions interface {
	GetSession(c *fiber.Ctx) *authn.Session
	SignOut(c *fiber.Ctx)
}

// Config of the middleware.
type Config struct {
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool

	Sessions Sessions
	Profiles profile.Fetcher
}

// Skip reports whether path is outside the middleware matcher:
// static assets (any path with a dot), API, RPC and internal endpoints.
func Skip(path string) bool {
	if strings.Contains(path, ".") {
		return true
	}

	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// IsPublic reports whether path is reachable without a session.
func IsPublic(path string) bool {
	_, ok := publicPaths[path]
	return ok
}

// Profile returns the profile fetched by the middleware for this request, or nil.
func Profile(c *fiber.Ctx) *profile.Profile {
	p, _ := c.Locals(LocalsProfileKey).(*profile.Profile)
	return p
}

// New creates the navigation middleware.
func New(cfg Config) fiber.Handler {
	if cfg.Sessions == nil || cfg.Profiles == nil {
		panic("auth middleware: sessions and profiles are required")
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		path := trimSlash(c.Path())
		if Skip(path) {
			decisions.WithLabelValues(DecisionSkip).Inc()
			return c.Next()
		}

		s := cfg.Sessions.GetSession(c)
		if s == nil {
			if IsPublic(path) {
				decisions.WithLabelValues(DecisionPass).Inc()
				return c.Next()
			}

			return redirect(c, LoginPath, DecisionLogin)
		}

		p, err := cfg.Profiles.Fetch(c.UserContext(), s.User.ID)
		if err != nil {
			log.Error().Err(err).Str("user_id", s.User.ID).Str("path", path).
				Msg("failed to fetch user profile in middleware")

			// dropping the token keeps /login reachable
			cfg.Sessions.SignOut(c)

			return redirect(c, LoginPath, DecisionLogin)
		}

		c.Locals(LocalsProfileKey, p)

		if p.NeedsOnboarding() && path != OnboardingPath {
			return redirect(c, OnboardingPath, DecisionOnboarding)
		}

		if path == LoginPath || path == RegisterPath {
			return redirect(c, DashboardPath, DecisionDashboard)
		}

		decisions.WithLabelValues(DecisionPass).Inc()

		return c.Next()
	}
}

// trimSlash drops one trailing slash so /login/ matches /login like the router does.
func trimSlash(path string) string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return path[:len(path)-1]
	}

	return path
}

func redirect(c *fiber.Ctx, to, decision string) error {
	decisions.WithLabelValues(decision).Inc()
	return c.Redirect(to, fiber.StatusFound)
}
