package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"gorm.io/gorm"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/catalog"
	"github.com/biomed-cmms/cmms-access/internal/config"
	"github.com/biomed-cmms/cmms-access/internal/matrix"
	"github.com/biomed-cmms/cmms-access/internal/web/navigation"
)

// ErrMissingDeps is returned by Init when a required dependency is nil.
var ErrMissingDeps = errors.New(ErrNilDepsFatalLogMsg)

// Deps are the shared dependencies handed to every handler on Init.
type Deps struct {
	Cfg         *config.Config
	DB          *gorm.DB
	Catalog     *catalog.Catalog
	AuthService *auth.Service
	Local       *auth.LocalProvider
	Editors     *matrix.Sessions
	Menu        []navigation.MenuItem
}

// Valid reports whether the dependencies every handler relies on are set.
func (d *Deps) Valid() bool {
	return d != nil && d.Cfg != nil && d.Catalog != nil && d.AuthService != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler renders fiber errors as ErrorResponse.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	msg := err.Error()
	if code == fiber.StatusInternalServerError && fe == nil {
		msg = fiber.ErrInternalServerError.Message
	}

	return c.Status(code).JSON(ErrorResponse{Error: msg})
}
