// Package user provides the persistence operations for accounts of the local session provider.
package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/datastore-web/datastore/internal/db/models"
)

const (
	emailQueryPattern          = "email = ?"
	usernameOrEmailQueryPattern = "username = ? OR email = ?"
)

var (
	// ErrUserNotFound is returned when no account matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when the username or email is already taken.
	ErrUserExists = errors.New("user with username or email already exists")
	// ErrInvalidRole is returned for roles other than ADMIN, SUPPORT, USER.
	ErrInvalidRole = errors.New("invalid role")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// NormalizeEmail lower-cases and trims an email address before storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores a new account. The password must already be hashed.
func Create(db *gorm.DB, u *models.User) error {
	if db == nil {
		return ErrDBNil
	}

	if u.Role == "" {
		u.Role = models.RoleUser
	}

	if !u.Role.Valid() {
		return ErrInvalidRole
	}

	u.Email = NormalizeEmail(u.Email)

	var existing models.User

	result := db.Where(usernameOrEmailQueryPattern, u.Username, u.Email).First(&existing)
	if result.Error == nil {
		return ErrUserExists
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	return db.Create(u).Error
}

// GetByID retrieves an account by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User

	result := db.First(&u, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &u, nil
}

// GetByEmail retrieves an account by its email address.
func GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User

	result := db.Where(emailQueryPattern, NormalizeEmail(email)).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &u, nil
}

// List returns accounts ordered by ID, offset and limit page through them.
// A limit of 0 returns all accounts.
func List(db *gorm.DB, offset, limit int) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User

	q := db.Order("id").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Count returns the number of stored accounts.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64

	err := db.Model(&models.User{}).Count(&count).Error

	return count, err
}

// SetRole changes the role of an account.
func SetRole(db *gorm.DB, id uint64, role models.Role) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	u, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	u.Role = role

	if err = db.Save(u).Error; err != nil {
		return nil, err
	}

	return u, nil
}
