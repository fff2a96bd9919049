package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"event-booking/internal/catalog"
	"event-booking/internal/validation"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"invalid": func(errs validation.FieldErrors, field string) string {
			if errs.Has(field) {
				return " is-invalid"
			}
			return ""
		},
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

type bookingPage struct {
	Title      string
	FormErrors []string
	CSRFField  template.HTML
	Form       *bookingForm
	Errors     validation.FieldErrors
	Catalog    *catalog.Catalog
	MinDate    string
	Selected   map[string]bool
	Estimate   string
}

type successPage struct {
	Title   string
	Message string
	Date    string
}

// render executes name into a buffer first so a template error never
// leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("render template",
			zap.String("template", name),
			zap.Error(err),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
