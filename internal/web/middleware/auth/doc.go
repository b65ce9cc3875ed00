// Package auth provides the authentication and authorization middleware of the web application.
//
// Session resolves the browser session cookie, loads the persisted auth state for it and
// attaches a session.Provider to the request. Every handler behind it reads the role
// through session.FromLocals; reading it on a route without Session panics.
//
// RequireLogin, RequireRole and RequirePermission guard routes. They answer 401 for
// logged out sessions and 403 when the role lacks access. Every permission decision is
// counted in cmms_permission_checks_total.
//
// Usage:
//
//	app.Use(authmiddleware.Session(authmiddleware.Config{Store: store}))
//	app.Get("/api/audit", authmiddleware.RequirePermission(svc, auth.ResAudit, auth.ActView), h)
package auth
