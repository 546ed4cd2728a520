// Package session keeps the short lived server side state of a browser:
// the toast notifications shown by the root layout on the next page render.
//
// The authenticated session itself lives in the signed session token, see package auth.
package session

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"
)

const (
	// CookieName of the server side session.
	CookieName = "datastore_flash"

	toastsKey  = "toasts"
	expiration = 30 * time.Minute
)

// Toast kinds, mapped to CSS classes by the root layout.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// ErrNoStore is returned when a toast is queued before Init.
var ErrNoStore = errors.New("session store is not initialized")

// Store is the global session store instance.
var Store *session.Store //nolint:gochecknoglobals

// Toast is a notification rendered once by the root layout.
type Toast struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Init initializes the session store. A nil storage keeps sessions in memory.
func Init(storage fiber.Storage, secure bool) {
	Store = session.New(session.Config{
		Storage:        storage,
		Expiration:     expiration,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
	})
}

func read(sess *session.Session) []Toast {
	var toasts []Toast

	raw, ok := sess.Get(toastsKey).(string)
	if !ok || raw == "" {
		return nil
	}

	if err := json.Unmarshal([]byte(raw), &toasts); err != nil {
		log.Warn().Err(err).Msg("dropping unreadable toasts")
		return nil
	}

	return toasts
}

// AddToast queues a notification for the next rendered page.
func AddToast(c *fiber.Ctx, kind, message string) error {
	if Store == nil {
		return ErrNoStore
	}

	sess, err := Store.Get(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	toasts := append(read(sess), Toast{Kind: kind, Message: message})

	out, err := json.Marshal(toasts)
	if err != nil {
		return err //nolint:wrapcheck
	}

	sess.Set(toastsKey, string(out))

	return sess.Save() //nolint:wrapcheck
}

// PopToasts returns and clears the queued notifications.
func PopToasts(c *fiber.Ctx) []Toast {
	if Store == nil {
		return nil
	}

	sess, err := Store.Get(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to load session")
		return nil
	}

	toasts := read(sess)
	if len(toasts) == 0 {
		return nil
	}

	sess.Delete(toastsKey)

	if err = sess.Save(); err != nil {
		log.Error().Err(err).Msg("failed to save session")
	}

	return toasts
}
