// Package view renders the server-side HTML pages from embedded
// templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alvinseyidov/acteezer-web/internal/domain"
	"github.com/alvinseyidov/acteezer-web/internal/forms"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticHandler serves the embedded stylesheet and script under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// Page is the data every template receives.
type Page struct {
	Title  string
	User   *domain.User
	Banner *forms.Banner
	Data   any
}

// Renderer parses the embedded templates once and serves page renders.
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

var funcs = template.FuncMap{
	"formatDate": func(value string) string {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, value); err == nil {
				return t.Format("Jan 2, 2006")
			}
		}
		return value
	},
	"formatPrice": func(price string, isFree bool) string {
		if isFree || price == "" || price == "0.00" {
			return "Free"
		}
		return price + " ₼"
	},
	"bannerSeconds": func(b *forms.Banner) int {
		return int(b.DismissAfter / time.Second)
	},
	"stepPath": forms.PathFor,
}

// New parses every page template against the shared layout.
func New(logger *slog.Logger) (*Renderer, error) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, entry := range entries {
		name := entry.Name()
		if name == "layout.gohtml" {
			continue
		}
		tmpl, err := template.New("layout.gohtml").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.gohtml", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[strings.TrimSuffix(name, ".gohtml")] = tmpl
	}
	return &Renderer{templates: templates, logger: logger}, nil
}

// Render writes a full page. Render failures after headers would corrupt
// the response, so the template executes into a buffer first.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page *Page) {
	tmpl, ok := r.templates[name]
	if !ok {
		r.logger.Error("unknown template", slog.String("name", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.gohtml", page); err != nil {
		r.logger.Error("template render failed",
			slog.String("name", name),
			slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	io.Copy(w, &buf)
}
