// Package web provides embedded static assets and templates for the web application.
package web

import (
	"embed"
	"io/fs"
)

// TemplatesFS contains the embedded HTML templates.
//
//go:embed all:templates
var TemplatesFS embed.FS

// StaticFS contains the embedded static assets (CSS, JS).
//
//go:embed all:static
var StaticFS embed.FS

// Templates returns the templates rooted at the templates directory.
func Templates() (fs.FS, error) {
	return fs.Sub(TemplatesFS, "templates")
}

// Static returns the static assets rooted at the static directory.
func Static() (fs.FS, error) {
	return fs.Sub(StaticFS, "static")
}
