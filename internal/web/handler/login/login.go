package login

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/web/handler"
	authmiddleware "github.com/biomed-cmms/cmms-access/internal/web/middleware/auth"
	"github.com/biomed-cmms/cmms-access/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the name of the login template.
	TemplateName = "login"

	// AfterLoginPath is where a logged in browser is sent.
	AfterLoginPath = "/dashboard"
)

// Request is the login form.
type Request struct {
	Username string `json:"username" form:"username" validate:"required,max=100"`
	Password string `json:"password" form:"password" validate:"required,max=512"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	deps      *handler.Deps
	validator *validator.Validate
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() || deps.Local == nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps
	s.validator = validator.New()

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)

	return nil
}

// Get renders the login page, or redirects a logged in browser.
func (s *Service) Get(c fiber.Ctx) error {
	if session.FromLocals(c).IsLoggedIn() {
		return c.Redirect().To(AfterLoginPath)
	}

	return c.Render(TemplateName, fiber.Map{
		"Title": s.deps.Cfg.Title,
	})
}

// Post authenticates the form and stores the user's role in the auth state.
func (s *Service) Post(c fiber.Ctx) error {
	var req Request

	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, ErrInvalidFormData.Error())
	}

	if err := s.validator.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, ErrInvalidFormData.Error())
	}

	user, err := s.deps.Local.Authenticate(req.Username, req.Password)

	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		log.Info().Str("username", req.Username).Msg("login rejected")
		return fiber.NewError(fiber.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return fiber.NewError(fiber.StatusForbidden, ErrAccountDisabled.Error())
	case err != nil:
		log.Error().Err(err).Str("username", req.Username).Msg("login failed")
		return fiber.NewError(fiber.StatusInternalServerError, ErrInternalServerError.Error())
	}

	role, ok := auth.ParseRole(user.RoleID)
	if !ok {
		log.Error().Str("username", user.Username).Str("role", user.RoleID).Msg("user has unknown role")
		return fiber.NewError(fiber.StatusForbidden, ErrAccountDisabled.Error())
	}

	if err = authmiddleware.RenewSession(c); err != nil {
		log.Error().Err(err).Msg("failed to renew session")
		return fiber.NewError(fiber.StatusInternalServerError, ErrInternalServerError.Error())
	}

	provider := session.FromLocals(c)
	if err = provider.Login(role); err != nil {
		log.Error().Err(err).Msg("failed to persist auth state")
		return fiber.NewError(fiber.StatusInternalServerError, ErrInternalServerError.Error())
	}

	log.Info().Str("username", user.Username).Str("role", role.String()).Msg("user logged in")

	return c.JSON(provider.State().View())
}
