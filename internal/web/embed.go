package web

import (
	"embed"
	"io/fs"
	"net/http"
)

var (
	//go:embed static
	embeddedStatic embed.FS

	//go:embed templates
	embeddedTemplates embed.FS
)

// staticFiles returns the assets served below StaticPath.
func staticFiles() (fs.FS, error) {
	return fs.Sub(embeddedStatic, "static")
}

// templateFiles returns the page templates rooted at the templates directory.
func templateFiles() (http.FileSystem, error) {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, err
	}

	return http.FS(sub), nil
}
