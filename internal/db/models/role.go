package models

import "slices"

// Role is the coarse access level carried in every session.
type Role string

const (
	// RoleAdmin may manage users and their roles.
	RoleAdmin Role = "ADMIN"
	// RoleSupport may inspect users.
	RoleSupport Role = "SUPPORT"
	// RoleUser is the role of every registered account.
	RoleUser Role = "USER"
)

// Roles lists all known roles.
var Roles = []Role{RoleAdmin, RoleSupport, RoleUser} //nolint:gochecknoglobals

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// In reports whether r is contained in roles.
func (r Role) In(roles ...Role) bool {
	return slices.Contains(roles, r)
}
