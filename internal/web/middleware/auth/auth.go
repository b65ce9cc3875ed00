package auth

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/web/session"
)

const (
	// DefaultCookieName names the browser session cookie.
	DefaultCookieName = "cmms_session"

	// LocalSessionID is the locals key holding the browser session id.
	LocalSessionID = "sessionid"

	localRenew = "sessionrenew"

	checkTimeout = 5 * time.Second
)

// ErrNoSession is returned by RenewSession when the Session middleware did not run.
var ErrNoSession = errors.New("no session attached to the request")

// Check results counted by the permission checks counter.
const (
	ResultAllowed         = "allowed"
	ResultDenied          = "denied"
	ResultUnauthenticated = "unauthenticated"
	ResultError           = "error"
)

var permissionChecks = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "cmms_permission_checks_total",
		Help: "Number of route permission checks, differentiated by result.",
	},
	[]string{"result"},
)

// PermissionChecker answers whether a role holds an action on a resource.
// *auth.Service satisfies it.
type PermissionChecker interface {
	HasPermission(ctx context.Context, role auth.Role, resource, action string) (bool, error)
}

// Config of the Session middleware.
type Config struct {
	// Store holds the persisted auth states. Required.
	Store session.Store
	// CookieName of the browser session cookie. Default: DefaultCookieName.
	CookieName string
	// TTL of the persisted state and the cookie. Zero keeps both for the browser session.
	TTL time.Duration
	// Secure marks the cookie https only.
	Secure bool
	// Domain of the cookie. Empty means the request host.
	Domain string
	// OnLogout runs with the session id whenever a session logs out.
	OnLogout func(sessionID string)
	// OnRenew runs with the replaced session id after RenewSession.
	OnRenew func(oldSessionID string)
	// Skip returns true for requests that need no session, e.g. static files.
	Skip func(c fiber.Ctx) bool
}

// Session attaches the auth provider of the browser session to every request.
// A request without a session cookie gets a fresh session id.
func Session(cfg Config) fiber.Handler {
	if cfg.Store == nil {
		panic(session.ErrNilStore)
	}

	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}

	return func(c fiber.Ctx) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		sessionID := c.Cookies(cfg.CookieName)
		if !validSessionID(sessionID) {
			id, err := session.GenerateSessionID()
			if err != nil {
				log.Error().Err(err).Msg("failed to generate session ID")
				return fiber.ErrInternalServerError
			}

			sessionID = id
			cfg.setCookie(c, sessionID)
		}

		persister, err := session.NewPersister(cfg.Store, sessionID, cfg.TTL)
		if err != nil {
			return err
		}

		provider := session.NewProvider(persister)
		if cfg.OnLogout != nil {
			provider.OnLogout(func() { cfg.OnLogout(sessionID) })
		}

		renew := func() error {
			id, err := session.GenerateSessionID()
			if err != nil {
				return err
			}

			next, err := session.NewPersister(cfg.Store, id, cfg.TTL)
			if err != nil {
				return err
			}

			if err = provider.Rebind(next); err != nil {
				return err
			}

			if cfg.OnRenew != nil {
				cfg.OnRenew(sessionID)
			}

			sessionID = id
			c.Locals(LocalSessionID, sessionID)
			cfg.setCookie(c, sessionID)

			return nil
		}

		c.Locals(LocalSessionID, sessionID)
		c.Locals(localRenew, renew)
		session.Attach(c, provider)

		return c.Next()
	}
}

func (cfg Config) setCookie(c fiber.Ctx, sessionID string) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    sessionID,
		Domain:   cfg.Domain,
		MaxAge:   int(cfg.TTL.Seconds()),
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// RenewSession moves the request's session to a fresh id and sets the new cookie.
// The state stored under the old id is removed. Call it before changing privileges.
func RenewSession(c fiber.Ctx) error {
	renew, ok := c.Locals(localRenew).(func() error)
	if !ok {
		return ErrNoSession
	}

	return renew()
}

// SessionID returns the browser session id set by Session.
func SessionID(c fiber.Ctx) string {
	id, _ := c.Locals(LocalSessionID).(string)
	return id
}

// validSessionID accepts the 64 hex characters produced by session.GenerateSessionID.
func validSessionID(id string) bool {
	if len(id) != 64 { //nolint:mnd
		return false
	}

	return strings.Trim(id, "0123456789abcdef") == ""
}

// RequireLogin rejects logged out sessions with 401.
func RequireLogin() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !session.FromLocals(c).IsLoggedIn() {
			permissionChecks.WithLabelValues(ResultUnauthenticated).Inc()
			return fiber.ErrUnauthorized
		}

		return c.Next()
	}
}

// RequireRole rejects logged out sessions with 401 and roles outside roles with 403.
func RequireRole(roles ...auth.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		p := session.FromLocals(c)

		if !p.IsLoggedIn() {
			permissionChecks.WithLabelValues(ResultUnauthenticated).Inc()
			return fiber.ErrUnauthorized
		}

		if !slices.Contains(roles, p.Role()) {
			permissionChecks.WithLabelValues(ResultDenied).Inc()
			log.Debug().Str("role", p.Role().String()).Str("path", c.Path()).Msg("role not allowed")

			return fiber.ErrForbidden
		}

		permissionChecks.WithLabelValues(ResultAllowed).Inc()

		return c.Next()
	}
}

// RequirePermission rejects requests whose role lacks action on resource.
func RequirePermission(checker PermissionChecker, resource, action string) fiber.Handler {
	return func(c fiber.Ctx) error {
		p := session.FromLocals(c)

		if !p.IsLoggedIn() {
			permissionChecks.WithLabelValues(ResultUnauthenticated).Inc()
			return fiber.ErrUnauthorized
		}

		ctx, cancel := context.WithTimeout(c.Context(), checkTimeout)
		defer cancel()

		ok, err := checker.HasPermission(ctx, p.Role(), resource, action)
		if err != nil {
			permissionChecks.WithLabelValues(ResultError).Inc()
			log.Error().Err(err).
				Str("role", p.Role().String()).
				Str("resource", resource).
				Str("action", action).
				Msg("permission check failed")

			return fiber.ErrInternalServerError
		}

		if !ok {
			permissionChecks.WithLabelValues(ResultDenied).Inc()
			return fiber.NewError(fiber.StatusForbidden, "missing permission "+resource+"/"+action)
		}

		permissionChecks.WithLabelValues(ResultAllowed).Inc()

		return c.Next()
	}
}
