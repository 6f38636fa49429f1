package api

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*
var templateFS embed.FS

// newTemplates creates and parses the HTML templates with custom functions.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"fmt2": func(f float64) string {
			return fmt.Sprintf("%.2f", f)
		},
		"int64": func(f float64) int {
			return int(f)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
