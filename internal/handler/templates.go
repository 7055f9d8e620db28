package handler

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var (
	loginTmpl     = template.Must(template.ParseFS(templateFS, "templates/login.html"))
	dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))
)

// Static serves the embedded stylesheet under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func render(w http.ResponseWriter, logger *slog.Logger, tmpl *template.Template, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		logger.Error("template render failed", slog.String("template", tmpl.Name()), slog.Any("error", err))
	}
}
