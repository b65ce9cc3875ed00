// Package permissions serves the permission matrix page and its editing API.
//
// Each browser session edits its own copy of the grants, kept in the
// matrix.Sessions registry. Nothing is written back to the database.
package permissions

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/matrix"
	"github.com/biomed-cmms/cmms-access/internal/web/handler"
	authmiddleware "github.com/biomed-cmms/cmms-access/internal/web/middleware/auth"
	"github.com/biomed-cmms/cmms-access/internal/web/navigation"
	"github.com/biomed-cmms/cmms-access/internal/web/session"
)

const (
	// Path is the matrix page.
	Path = handler.RootPath + "admin/permissions"

	// APIPath is the base of the matrix API.
	APIPath = handler.APIPath + "/matrix"

	// TemplateName is the name of the matrix template.
	TemplateName = "admin/permissions"
)

// TargetRequest opens the edit context of a role/resource pairing.
type TargetRequest struct {
	Role     string `json:"role" validate:"required,max=50"`
	Resource string `json:"resource" validate:"required,max=100"`
}

// ToggleRequest flips one cell.
type ToggleRequest struct {
	Role     string `json:"role" validate:"required,max=50"`
	Resource string `json:"resource" validate:"required,max=100"`
	Action   string `json:"action" validate:"required,max=50"`
}

// RowRequest sets every action of a role/resource pairing.
type RowRequest struct {
	Role     string `json:"role" validate:"required,max=50"`
	Resource string `json:"resource" validate:"required,max=100"`
	Allowed  bool   `json:"allowed"`
}

// Response carries the grid after an operation. Changed is false when the
// operation was a no-op, e.g. for unknown ids or Save outside of Editing.
type Response struct {
	Changed bool        `json:"changed"`
	Dirty   bool        `json:"dirty"`
	Grid    matrix.Grid `json:"grid"`
}

// Service is the permission matrix handler service.
type Service struct {
	handler.Service
	editors   *matrix.Sessions
	menu      []navigation.MenuItem
	validator *validator.Validate
}

// Init initializes the permission matrix handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() || deps.Editors == nil {
		return handler.ErrMissingDeps
	}

	s.editors = deps.Editors
	s.menu = deps.Menu
	s.validator = validator.New()

	admins := authmiddleware.RequireRole(auth.RolePlatformAdmin, auth.RoleTenantAdmin)
	canView := authmiddleware.RequirePermission(deps.AuthService, auth.ResPermissions, auth.ActView)
	canEdit := authmiddleware.RequirePermission(deps.AuthService, auth.ResPermissions, auth.ActEdit)

	app.Get(Path, admins, canView, s.Page)
	app.Get(APIPath, admins, canView, s.Get)

	app.Post(APIPath+"/begin", admins, canEdit, s.Begin)
	app.Post(APIPath+"/save", admins, canEdit, s.Save)
	app.Post(APIPath+"/cancel", admins, canEdit, s.Cancel)
	app.Post(APIPath+"/toggle", admins, canEdit, s.Toggle)
	app.Post(APIPath+"/row", admins, canEdit, s.Row)
	app.Post(APIPath+"/reset", admins, canEdit, s.Reset)

	return nil
}

func (s *Service) editor(c fiber.Ctx) *matrix.Editor {
	return s.editors.Get(authmiddleware.SessionID(c))
}

func (s *Service) respond(c fiber.Ctx, e *matrix.Editor, changed bool) error {
	return c.JSON(Response{Changed: changed, Dirty: e.Dirty(), Grid: e.Grid()})
}

// Page renders the matrix.
func (s *Service) Page(c fiber.Ctx) error {
	role := session.FromLocals(c).Role()

	nav := navigation.NewContext("Permissions", Path).
		AddBreadcrumb("Administration", Path, false).
		AddBreadcrumb("Permissions", Path, true).
		WithSections(navigation.Build(s.menu, role))

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Grid":       s.editor(c).Grid(),
	}, handler.BaseLayout)
}

// Get returns the grid of the session's editor.
func (s *Service) Get(c fiber.Ctx) error {
	return s.respond(c, s.editor(c), false)
}

// Begin opens the edit context of a role/resource pairing.
func (s *Service) Begin(c fiber.Ctx) error {
	var req TargetRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	e := s.editor(c)

	return s.respond(c, e, e.Begin(auth.Role(req.Role), req.Resource))
}

// Save closes the edit context keeping its edits.
func (s *Service) Save(c fiber.Ctx) error {
	e := s.editor(c)

	return s.respond(c, e, e.Save())
}

// Cancel closes the edit context restoring its row.
func (s *Service) Cancel(c fiber.Ctx) error {
	e := s.editor(c)

	return s.respond(c, e, e.Cancel())
}

// Toggle flips one cell.
func (s *Service) Toggle(c fiber.Ctx) error {
	var req ToggleRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	e := s.editor(c)

	return s.respond(c, e, e.Toggle(auth.Role(req.Role), req.Resource, req.Action))
}

// Row sets every action of a role/resource pairing.
func (s *Service) Row(c fiber.Ctx) error {
	var req RowRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	e := s.editor(c)

	return s.respond(c, e, e.SetRow(auth.Role(req.Role), req.Resource, req.Allowed))
}

// Reset discards every edit of the session.
func (s *Service) Reset(c fiber.Ctx) error {
	e := s.editor(c)
	e.Reset()

	log.Debug().Str("role", session.FromLocals(c).Role().String()).Msg("permission matrix reset")

	return s.respond(c, e, true)
}

func (s *Service) bind(c fiber.Ctx, req any) error {
	if err := c.Bind().JSON(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return nil
}
