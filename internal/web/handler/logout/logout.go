// Package logout clears the auth state of the browser session.
package logout

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/biomed-cmms/cmms-access/internal/web/handler"
	"github.com/biomed-cmms/cmms-access/internal/web/handler/login"
	"github.com/biomed-cmms/cmms-access/internal/web/session"
)

// Path is the logout path.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrMissingDeps
	}

	s.deps = deps

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)

	return nil
}

// Get logs out and sends the browser to the login page.
func (s *Service) Get(c fiber.Ctx) error {
	s.logout(c)

	return c.Redirect().To(login.Path)
}

// Post logs out and returns the resulting auth state.
func (s *Service) Post(c fiber.Ctx) error {
	p := s.logout(c)

	return c.JSON(p.State().View())
}

func (s *Service) logout(c fiber.Ctx) *session.Provider {
	p := session.FromLocals(c)

	if err := p.Logout(); err != nil {
		log.Error().Err(err).Msg("failed to clear auth state")
	}

	return p
}
