// Package auth provides the navigation middleware of the web application.
//
// For every page request the middleware reads the session token and decides
// between passing the request on and redirecting it:
//   - no session on a non public page redirects to /login
//   - a session whose profile cannot be loaded redirects to /login
//   - a session that has not started onboarding redirects to /onboarding
//   - a session on /login or /register redirects to /dashboard
//
// Static assets, API, RPC and internal endpoints are never intercepted.
//
// Usage:
//
//	app.Use(authmiddleware.New(authmiddleware.Config{
//		Sessions: provider,
//		Profiles: profile.NewClient(cfg.API),
//	}))
package auth
