package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrUnauthorized is the single failure signal of the session helpers.
	ErrUnauthorized = fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")

	// ErrInvalidCredentials is returned for an unknown email, a wrong password or a disabled account.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserExists is returned when registering a taken username or email.
	ErrUserExists = errors.New("username or email is already taken")
)
