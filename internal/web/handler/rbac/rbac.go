// Package rbac serves the read-only access-control catalog: roles, the resource
// tree, single permission checks, organization options and the audit log.
package rbac

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/catalog"
	"github.com/biomed-cmms/cmms-access/internal/db/models"
	"github.com/biomed-cmms/cmms-access/internal/web/handler"
	authmiddleware "github.com/biomed-cmms/cmms-access/internal/web/middleware/auth"
)

// Route paths.
const (
	RolesPath         = handler.APIPath + "/roles"
	ResourcesPath     = handler.APIPath + "/resources"
	ChildrenPath      = ResourcesPath + "/:id/children"
	CheckPath         = handler.APIPath + "/permissions/check"
	OrganizationsPath = handler.APIPath + "/users/:id/organizations"
	AuditPath         = handler.APIPath + "/audit"

	checkTimeout = 5 * time.Second
)

// RoleView is a catalog role with its display attributes.
type RoleView struct {
	ID       auth.Role    `json:"id"`
	Label    string       `json:"label"`
	Initials string       `json:"initials"`
	Scope    models.Scope `json:"scope"`
}

// ResourceNode is a resource with its depth in the tree.
type ResourceNode struct {
	models.Resource
	Depth int `json:"depth"`
}

// CheckRequest holds the query of a permission check.
type CheckRequest struct {
	Role     string `query:"role" validate:"required,max=50"`
	Resource string `query:"resource" validate:"required,max=100"`
	Action   string `query:"action" validate:"required,max=50"`
}

// CheckResponse is the answer of a permission check.
type CheckResponse struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Allowed  bool   `json:"allowed"`
}

// Organizations lists the organizations a tenant user is active in.
type Organizations struct {
	UserID        string   `json:"userId"`
	Organizations []string `json:"organizations"`
}

// Service is the rbac handler service.
type Service struct {
	handler.Service
	cat         *catalog.Catalog
	authService *auth.Service
	validator   *validator.Validate
}

// Init initializes the rbac handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrMissingDeps
	}

	s.cat = deps.Catalog
	s.authService = deps.AuthService
	s.validator = validator.New()

	loggedIn := authmiddleware.RequireLogin()

	app.Get(RolesPath, loggedIn, s.Roles)
	app.Get(ResourcesPath, loggedIn, s.Resources)
	app.Get(ChildrenPath, loggedIn, s.Children)
	app.Get(CheckPath, loggedIn, s.Check)
	app.Get(OrganizationsPath, loggedIn, s.Organizations)
	app.Get(AuditPath, authmiddleware.RequirePermission(s.authService, auth.ResAudit, auth.ActView), s.Audit)

	return nil
}

// Roles lists the catalog roles.
func (s *Service) Roles(c fiber.Ctx) error {
	roles := s.cat.Roles()
	out := make([]RoleView, 0, len(roles))

	for _, r := range roles {
		role := auth.Role(r.ID)
		info := role.Info()
		out = append(out, RoleView{ID: role, Label: r.Label, Initials: info.Initials, Scope: r.Scope})
	}

	return c.JSON(out)
}

// Resources lists the resource tree depth first.
func (s *Service) Resources(c fiber.Ctx) error {
	out := make([]ResourceNode, 0)

	s.cat.Walk(func(r models.Resource, depth int) {
		out = append(out, ResourceNode{Resource: r, Depth: depth})
	})

	return c.JSON(out)
}

// Children lists the direct children of a resource.
func (s *Service) Children(c fiber.Ctx) error {
	id := c.Params("id")
	if !s.cat.HasResource(id) {
		return fiber.NewError(fiber.StatusNotFound, "unknown resource "+id)
	}

	return c.JSON(s.cat.ResourceChildren(id))
}

// Check answers one role/resource/action lookup against the stored grants.
// Unknown ids are not an error; they are simply not allowed.
func (s *Service) Check(c fiber.Ctx) error {
	var req CheckRequest

	if err := c.Bind().Query(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := s.validator.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "role, resource and action are required")
	}

	ctx, cancel := context.WithTimeout(c.Context(), checkTimeout)
	defer cancel()

	allowed, err := s.authService.HasPermission(ctx, auth.Role(req.Role), req.Resource, req.Action)
	if err != nil {
		log.Error().Err(err).Msg("permission check failed")
		return fiber.ErrInternalServerError
	}

	return c.JSON(CheckResponse{
		Role:     req.Role,
		Resource: req.Resource,
		Action:   req.Action,
		Allowed:  allowed,
	})
}

// Organizations lists the organizations the tenant user is active in.
func (s *Service) Organizations(c fiber.Ctx) error {
	id := c.Params("id")

	return c.JSON(Organizations{UserID: id, Organizations: s.cat.ActiveOrganizations(id)})
}

// Audit returns the audit log, newest first.
func (s *Service) Audit(c fiber.Ctx) error {
	return c.JSON(s.cat.AuditLog())
}
