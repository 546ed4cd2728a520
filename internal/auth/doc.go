// Package auth is the session provider of the web application.
//
// A session is a signed token (see package token) stored in an HTTP-only cookie.
// The Provider issues it on sign-in, clears it on sign-out and reads it back on
// every request. Accounts live in the local users table with Argon2id hashed
// passwords.
//
// Route handlers consult the session through three helpers:
//   - GetSession: the session of the request, or nil
//   - RequireAuth: the session, or ErrUnauthorized
//   - RequireRole: the session when its role is one of the given roles, or ErrUnauthorized
//
// Authenticated and RequireRoles wrap the last two as Fiber middleware.
// Every failure is the same 401 Unauthorized, there is no finer distinction.
//
// Example usage:
//
//	provider := auth.NewProvider(cfg, db)
//
//	app.Get("/api/admin/users",
//	    provider.RequireRoles(models.RoleAdmin, models.RoleSupport),
//	    handler,
//	)
package auth
