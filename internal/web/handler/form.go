package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog/log"

	"github.com/datastore-web/datastore/internal/config"
	"github.com/datastore-web/datastore/internal/schema"
)

// MsgTooManyRequests is shown when a form is posted too often.
const MsgTooManyRequests = "Too many attempts, please wait a minute and try again"

// FormData is the template data of a form page: the posted form, the field
// errors of a schema.Errors and an optional message above the form.
func FormData(form any, err error, message string) fiber.Map {
	data := fiber.Map{
		"Form":   form,
		"Errors": map[string]string{},
	}

	var verrs schema.Errors
	if errors.As(err, &verrs) {
		data["Errors"] = verrs.ByField()
	}

	if message != "" {
		data["Error"] = message
	}

	return data
}

// FormLimiter limits form posts per client IP. onLimit renders the answer for a blocked post.
func FormLimiter(cfg config.RateLimit, onLimit fiber.Handler) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + c.Path()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Warn().Str("ip", c.IP()).Str("path", c.Path()).Msg("form rate limit reached")

			c.Status(fiber.StatusTooManyRequests)

			return onLimit(c)
		},
	})
}
