package webapp

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/certpanel/certpanel/internal/scanner"
	"github.com/certpanel/certpanel/internal/storage"
)

//go:embed templates/*.html
var templatesFS embed.FS

// expiringSoonDays marks certificates in the dashboard that should have
// been renewed already.
const expiringSoonDays = 14

var templateFuncs = template.FuncMap{
	"fmtTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04 MST")
	},
	"fmtTimePtr": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04 MST")
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"derefInt": func(n *int) int {
		if n == nil {
			return 0
		}
		return *n
	},
	"derefInt64": func(n *int64) int64 {
		if n == nil {
			return 0
		}
		return *n
	},
	"expiringSoon": func(daysLeft *int) bool {
		return daysLeft != nil && *daysLeft < expiringSoonDays
	},
}

// parseTemplates builds one template set per page, each sharing the
// layout. Pages override the layout's title and content blocks.
func parseTemplates() (map[string]*template.Template, error) {
	pages := map[string]*template.Template{}
	for _, page := range []string{"home", "job"} {
		tmpl, err := template.New(page).
			Funcs(templateFuncs).
			ParseFS(templatesFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		pages[page] = tmpl
	}
	return pages, nil
}

// homeView is the dashboard model.
type homeView struct {
	Accounts       []storage.Account
	Jobs           []storage.Job
	Certs          []scanner.Certificate
	DefaultEmail   string
	DefaultStaging bool
}

// jobView is the job detail model.
type jobView struct {
	Job storage.Job
}
