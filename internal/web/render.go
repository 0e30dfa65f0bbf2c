package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"budgetweb/internal/forms"
	"budgetweb/internal/session"
)

//go:embed templates
var templatesFS embed.FS

// pageData is what every template renders from. Form carries the concrete
// draft struct for the page so inputs keep their values across a failed
// submission; Token carries the opaque password-reset token from the URL.
type pageData struct {
	Title   string
	Session session.Session
	Flash   *Flash
	Errors  forms.Errors
	Form    any
	Token   string
}

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("02.01.2006")
	},
}

// newTemplates parses one template set per page, each sharing the base
// layout and navbar.
func newTemplates() (map[string]*template.Template, error) {
	pages := []string{
		"landing",
		"login",
		"register",
		"forgot_password",
		"reset_password",
		"profile",
		"not_found",
	}

	sets := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("layout.html.tmpl").Funcs(templateFuncs).ParseFS(
			templatesFS,
			"templates/layout.html.tmpl",
			"templates/navbar.html.tmpl",
			"templates/"+page+".html.tmpl",
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s templates: %w", page, err)
		}
		sets[page] = t
	}
	return sets, nil
}

// render writes a full page. The session comes from the request store and a
// pending flash cookie is consumed, unless the handler set one explicitly.
func (a *App) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	data.Session = storeFrom(r.Context()).Current()
	if data.Flash == nil {
		data.Flash = popFlash(w, r)
	}

	t, ok := a.templates[page]
	if !ok {
		a.loggerFrom(r.Context()).Error(r.Context(), "unknown template", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout.html.tmpl", data); err != nil {
		a.loggerFrom(r.Context()).Error(r.Context(), "template execution failed", "page", page, "error", err.Error())
	}
}
