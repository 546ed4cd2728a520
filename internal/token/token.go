// Package token issues and decodes the signed session token carried in the session cookie.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/datastore-web/datastore/internal/db/models"
)

const bearerPrefix = "Bearer "

var (
	// ErrEmptySecret is returned when no signing secret is configured.
	ErrEmptySecret = errors.New("session token secret is empty")
	// ErrNoToken is returned when the request carries no session token.
	ErrNoToken = errors.New("no session token")
	// ErrInvalidToken is returned for tokens that fail signature, expiry or claim checks.
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims is the payload of a session token. The subject is the user id.
type Claims struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// ClaimsFor builds the claims of a session for u.
func ClaimsFor(u *models.User) Claims {
	return Claims{
		Name:  u.Username,
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatUint(u.ID, 10),
		},
	}
}

// Issue signs claims with HS256. IssuedAt, ExpiresAt and ID are set here.
func Issue(secret string, claims Claims, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, ErrEmptySecret
	}

	now := time.Now()
	expires := now.Add(ttl)

	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(expires)
	claims.ID = uuid.NewString()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}

	return signed, expires, nil
}

// Decode verifies raw and returns its claims.
// Tokens signed with another algorithm, expired tokens and tokens without subject are rejected.
func Decode(secret, raw string) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	if raw == "" {
		return nil, ErrNoToken
	}

	claims := new(Claims)

	tok, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !tok.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// FromRequest returns the raw session token of c.
// The session cookie wins over an Authorization bearer header.
func FromRequest(c *fiber.Ctx, cookieName string) string {
	if v := c.Cookies(cookieName); v != "" {
		return v
	}

	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	}

	return ""
}
