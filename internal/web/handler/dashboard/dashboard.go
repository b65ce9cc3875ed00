// Package dashboard provides the dashboard handler listing the modules of the current role.
package dashboard

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/catalog"
	"github.com/biomed-cmms/cmms-access/internal/db/models"
	"github.com/biomed-cmms/cmms-access/internal/web/handler"
	authmiddleware "github.com/biomed-cmms/cmms-access/internal/web/middleware/auth"
	"github.com/biomed-cmms/cmms-access/internal/web/navigation"
	"github.com/biomed-cmms/cmms-access/internal/web/session"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	// DefaultPageSize is the default number of audit entries per page.
	DefaultPageSize = 10

	defaultTimeout = 10 * time.Second
)

// Module is a top-level resource the role can view.
type Module struct {
	Resource models.Resource
	Actions  []string
	Pages    []models.Resource
}

// AuditPage is one page of the audit log.
type AuditPage struct {
	Entries     []models.AuditLogEntry
	CurrentPage int
	PageSize    int
	TotalItems  int
	TotalPages  int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    int
	NextPage    int
}

// Data represents the complete dashboard data.
type Data struct {
	User    session.View
	Modules []Module
	// Audit is nil when the role cannot view the audit log.
	Audit *AuditPage
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cat         *catalog.Catalog
	authService *auth.Service
	menu        []navigation.MenuItem
}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrMissingDeps
	}

	s.cat = deps.Catalog
	s.authService = deps.AuthService
	s.menu = deps.Menu

	// every role lands here after login, end users see only their modules
	app.Get(Path, authmiddleware.RequireLogin(), s.Get)

	return nil
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c fiber.Ctx) error {
	state := session.FromLocals(c).State()

	nav := navigation.NewContext("Dashboard", Path).
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Dashboard", Path, true).
		WithSections(navigation.Build(s.menu, state.UserRole))

	ctx, cancel := context.WithTimeout(c.Context(), defaultTimeout)
	defer cancel()

	data, err := s.Build(ctx, state, fiber.Query[int](c, "page", 1), fiber.Query[int](c, "pageSize", DefaultPageSize))
	if err != nil {
		log.Error().Err(err).Str("role", state.UserRole.String()).Msg("failed to build dashboard")

		return fiber.ErrInternalServerError
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Data":       data,
	}, handler.BaseLayout)
}

// Build collects the modules and the audit page shown to state.
func (s *Service) Build(ctx context.Context, state session.State, page, pageSize int) (Data, error) {
	grants, err := s.authService.RoleGrants(ctx, state.UserRole)
	if err != nil {
		return Data{}, err
	}

	table := auth.NewGrantTable(grants)

	data := Data{
		User:    state.View(),
		Modules: modules(s.cat, table, state.UserRole),
	}

	if table.Allowed(state.UserRole, auth.ResAudit, auth.ActView) {
		audit := paginate(s.cat.AuditLog(), page, pageSize)
		data.Audit = &audit
	}

	log.Debug().
		Str("role", state.UserRole.String()).
		Int("modules", len(data.Modules)).
		Bool("audit", data.Audit != nil).
		Msg("dashboard built")

	return data, nil
}

func modules(cat *catalog.Catalog, table *auth.GrantTable, role auth.Role) []Module {
	out := make([]Module, 0)

	for _, r := range cat.TopLevelResources() {
		if !table.Allowed(role, r.ID, auth.ActView) {
			continue
		}

		m := Module{Resource: r, Actions: make([]string, 0), Pages: make([]models.Resource, 0)}

		for _, a := range cat.Actions() {
			if table.Allowed(role, r.ID, a.ID) {
				m.Actions = append(m.Actions, a.ID)
			}
		}

		for _, child := range cat.ResourceChildren(r.ID) {
			if table.Allowed(role, child.ID, auth.ActView) {
				m.Pages = append(m.Pages, child)
			}
		}

		out = append(out, m)
	}

	return out
}

// paginate returns one page of entries. Out of range pages are clamped.
func paginate(entries []models.AuditLogEntry, page, pageSize int) AuditPage {
	if pageSize < 1 || pageSize > 100 {
		pageSize = DefaultPageSize
	}

	totalItems := len(entries)

	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}

	if page > totalPages {
		page = totalPages
	}

	var (
		startIdx = (page - 1) * pageSize
		endIdx   = min(startIdx+pageSize, totalItems)
	)

	paged := []models.AuditLogEntry{}
	if startIdx < totalItems {
		paged = entries[startIdx:endIdx]
	}

	return AuditPage{
		Entries:     paged,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasPrevPage: page > 1,
		HasNextPage: page < totalPages,
		PrevPage:    page - 1,
		NextPage:    page + 1,
	}
}
