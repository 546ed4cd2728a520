package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User is an account of the local session provider.
// Onboarding state is not stored here, it is owned by the internal user API.
type User struct {
	// ID is the unique identifier and the subject of issued session tokens.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Active accounts may sign in.
	Active bool `gorm:"not null" json:"active"`
	// Username is 3 to 20 letters, digits or underscores.
	Username string `gorm:"uniqueIndex;size:20;not null" json:"username"`
	// Email is the sign-in identifier.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	// Password is the Argon2id hash.
	Password string `gorm:"size:255;not null" json:"-"`
	// Role is one of ADMIN, SUPPORT, USER.
	Role Role `gorm:"type:varchar(16);not null;default:'USER'" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName pins the table name.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password with the default Argon2id parameters.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword compares password against the stored hash in constant time.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
