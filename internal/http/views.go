package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/aussiebroadwan/gradebook/internal/domain"
	"github.com/aussiebroadwan/gradebook/internal/service"
	"github.com/aussiebroadwan/gradebook/pkg/httpx"
	"github.com/aussiebroadwan/gradebook/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageData struct {
	Title    string
	Version  string
	Feedback *Feedback
}

type loginData struct {
	pageData
	Username string
}

type registerData struct {
	pageData
	Username string
	Role     string
	Roles    []domain.Role
}

type appData struct {
	pageData
	Role     domain.Role
	Controls service.Controls
	Records  []domain.Student
	Form     service.StudentInput
}

type plotData struct {
	pageData
	XLabel string
	YLabel string
	Totals []domain.StudentTotal
}

type views struct {
	pages map[string]*template.Template
}

func loadViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template)}
	for _, name := range []string{"login", "register", "app", "plot"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// render executes a page into a buffer first so a template failure never
// leaves a half-written response.
func (v *views) render(w http.ResponseWriter, r *http.Request, name string, status int, data any) {
	t, ok := v.pages[name]
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		slogx.FromContext(r.Context()).Error("render page", "page", name, "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
