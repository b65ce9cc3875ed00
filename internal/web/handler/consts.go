package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath prefixes the JSON endpoints.
	APIPath = "/api"

	// ErrNilDepsFatalLogMsg is used if app or one of the required dependencies is nil.
	ErrNilDepsFatalLogMsg = "app, cfg, catalog or auth service is nil"
)
