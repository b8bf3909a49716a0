package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the login and dashboard pages.
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}
