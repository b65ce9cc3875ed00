// Package account serves the auth state and the side menu of the current session.
package account

import (
	"github.com/gofiber/fiber/v3"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/web/handler"
	authmiddleware "github.com/biomed-cmms/cmms-access/internal/web/middleware/auth"
	"github.com/biomed-cmms/cmms-access/internal/web/navigation"
	"github.com/biomed-cmms/cmms-access/internal/web/session"
)

const (
	// SessionPath serves the auth state.
	SessionPath = handler.APIPath + "/session"

	// NavigationPath serves the filtered side menu.
	NavigationPath = handler.APIPath + "/navigation"
)

// Navigation is the menu of one role.
type Navigation struct {
	Role     auth.Role            `json:"role"`
	Sections []navigation.Section `json:"sections"`
	Links    []navigation.Link    `json:"links"`
}

// Service is the account handler service.
type Service struct {
	handler.Service
	menu []navigation.MenuItem
}

// Init initializes the account handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrMissingDeps
	}

	s.menu = deps.Menu
	if s.menu == nil {
		s.menu = navigation.DefaultMenu()
	}

	app.Get(SessionPath, s.Session)
	app.Get(NavigationPath, authmiddleware.RequireLogin(), s.Navigation)

	return nil
}

// Session returns the auth state of the browser session. It answers for
// logged out sessions too.
func (s *Service) Session(c fiber.Ctx) error {
	return c.JSON(session.FromLocals(c).State().View())
}

// Navigation returns the menu entries visible to the session's role.
func (s *Service) Navigation(c fiber.Ctx) error {
	role := session.FromLocals(c).Role()

	return c.JSON(MenuFor(s.menu, role))
}

// MenuFor builds the Navigation of role.
func MenuFor(menu []navigation.MenuItem, role auth.Role) Navigation {
	visible := navigation.Filter(menu, role)

	return Navigation{
		Role:     role,
		Sections: navigation.Group(visible),
		Links:    navigation.Links(visible),
	}
}
