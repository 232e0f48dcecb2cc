package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/requestctx"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// View is what every page template receives.
type View struct {
	Title     string
	Identity  *auth.Identity
	Flashes   []Flash
	Features  map[string]bool
	Path      string
	RequestID string
	Data      any
}

func (v View) Feature(name string) bool {
	return v.Features[name]
}

// Optional feature groups, switched on through FEATURES.
const (
	FeatureClient        = "client"
	FeatureEmployeeInput = "employee_input"
	FeatureAdmin         = "admin"
)

type Renderer struct {
	pages    map[string]*template.Template
	loc      *time.Location
	features map[string]bool
}

// NewRenderer parses every page together with the shared layout and the
// partials, whose file names start with an underscore.
func NewRenderer(loc *time.Location, features map[string]bool) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	rd := &Renderer{pages: map[string]*template.Template{}, loc: loc, features: features}

	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	shared := []string{"templates/" + layoutFile}
	var pages []string
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case name == layoutFile || !strings.HasSuffix(name, ".html"):
		case strings.HasPrefix(name, "_"):
			shared = append(shared, "templates/"+name)
		default:
			pages = append(pages, name)
		}
	}
	for _, name := range pages {
		patterns := append(append([]string{}, shared...), "templates/"+name)
		tmpl, err := template.New(layoutFile).Funcs(rd.funcs()).ParseFS(templateFS, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		rd.pages[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return rd, nil
}

// Feature reports whether the named feature group is mounted.
func (rd *Renderer) Feature(name string) bool {
	return rd.features[name]
}

func (rd *Renderer) Location() *time.Location {
	return rd.loc
}

func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	tmpl, ok := rd.pages[page]
	if !ok {
		slog.Error("unknown page template", "page", page, "requestId", requestctx.GetRequestID(r.Context()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	view := View{
		Title:     title,
		Flashes:   PopFlashes(w, r),
		Features:  rd.features,
		Path:      r.URL.Path,
		RequestID: requestctx.GetRequestID(r.Context()),
		Data:      data,
	}
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		view.Identity = &identity
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		slog.Error("render failed", "page", page, "err", err, "requestId", view.RequestID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	Status  int
	Message string
}

func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	rd.Render(w, r, status, "error", http.StatusText(status), errorPage{Status: status, Message: message})
}

func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Error(w, r, http.StatusNotFound, "The page or record you asked for does not exist.")
}

// Fault logs an unexpected error and shows the generic 500 page.
func (rd *Renderer) Fault(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed", "err", err, "method", r.Method, "path", r.URL.Path, "requestId", requestctx.GetRequestID(r.Context()))
	rd.Error(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

func (rd *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"date":     rd.formatDate,
		"datetime": rd.formatDateTime,
		"clock":    rd.formatClock,
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"upper": strings.ToUpper,
		"isoDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"isoDatePtr": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"intPtr": func(v *int) string {
			if v == nil {
				return ""
			}
			return fmt.Sprint(*v)
		},
		"floatPtr": func(v *float64) string {
			if v == nil {
				return ""
			}
			return fmt.Sprintf("%.6f", *v)
		},
	}
}

// formatDate renders calendar dates, which are stored as UTC midnight.
func (rd *Renderer) formatDate(value any) string {
	switch t := value.(type) {
	case time.Time:
		if t.IsZero() {
			return "-"
		}
		return t.Format("02 Jan 2006")
	case *time.Time:
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.Format("02 Jan 2006")
	}
	return "-"
}

func (rd *Renderer) formatDateTime(value any) string {
	switch t := value.(type) {
	case time.Time:
		if t.IsZero() {
			return "-"
		}
		return t.In(rd.loc).Format("02 Jan 2006 15:04")
	case *time.Time:
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.In(rd.loc).Format("02 Jan 2006 15:04")
	}
	return "-"
}

func (rd *Renderer) formatClock(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.In(rd.loc).Format("15:04")
}
