package webapp

import (
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/certpanel/certpanel/core/handler"
	"github.com/certpanel/certpanel/core/health"
	"github.com/certpanel/certpanel/core/logger"
	"github.com/certpanel/certpanel/core/response"
	"github.com/certpanel/certpanel/core/router"
	"github.com/certpanel/certpanel/internal/orchestrator"
	"github.com/certpanel/certpanel/internal/scanner"
	"github.com/certpanel/certpanel/internal/storage"
	"github.com/certpanel/certpanel/middleware"
)

// recentJobsLimit bounds the dashboard job table.
const recentJobsLimit = 20

// App wires repositories, the orchestrator, and the scanner into HTTP
// handlers.
type App struct {
	cfg      Config
	accounts storage.AccountRepository
	jobs     storage.JobRepository
	orch     *orchestrator.Orchestrator
	scan     *scanner.Scanner
	layout   storage.Layout
	pages    map[string]*template.Template
	checks   map[string]health.CheckFunc
	log      *slog.Logger
}

// New creates the web application.
func New(
	cfg Config,
	accounts storage.AccountRepository,
	jobs storage.JobRepository,
	orch *orchestrator.Orchestrator,
	scan *scanner.Scanner,
	checks map[string]health.CheckFunc,
	log *slog.Logger,
) (*App, error) {
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{
		cfg:      cfg,
		accounts: accounts,
		jobs:     jobs,
		orch:     orch,
		scan:     scan,
		layout:   storage.Layout{DataDir: cfg.DataDir},
		pages:    pages,
		checks:   checks,
		log:      log.With(logger.Component("webapp")),
	}, nil
}

// Handler assembles the route table.
func (a *App) Handler() http.Handler {
	r := router.New[*Context](
		router.WithContextFactory(NewContext),
		router.WithErrorHandler[*Context](a.handleError),
		router.WithLogger[*Context](a.log),
		router.WithMiddleware(
			middleware.RequestID[*Context](),
			middleware.LoggingWithConfig[*Context](middleware.LoggingConfig{
				Logger: a.log,
				Skip: func(ctx handler.Context) bool {
					p := ctx.Request().URL.Path
					return p == "/health" || p == "/ready"
				},
			}),
		),
	)

	r.Get("/health", stdHandler(health.Liveness()))
	r.Get("/ready", stdHandler(health.Readiness(a.checks)))

	r.Get("/", a.handleDashboard)
	r.Post("/accounts/create", a.handleCreateAccount)
	r.Post("/certs/issue_http", a.handleIssueHTTP)
	r.Post("/certs/renew_all", a.handleRenewAll)
	r.Post("/certs/renew_one", a.handleRenewOne)
	r.Get("/jobs/{id}", a.handleJobDetail)

	// Literal export routes win over the {which} parameter.
	r.Get("/export/{account_id}/{name}/bundle.zip", a.handleExportBundle)
	r.Get("/export/{account_id}/{name}/combined.pem", a.handleExportCombined)
	r.Get("/export/{account_id}/{name}/{which}", a.handleExportPEM)

	r.Get("/api/cron/renew", a.handleCronRenew)

	return r
}

// stdHandler adapts a plain http.HandlerFunc to the typed handler shape.
func stdHandler(h http.HandlerFunc) handler.HandlerFunc[*Context] {
	return func(ctx *Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			h(w, r)
			return nil
		}
	}
}

// handleError renders errors as plain text with the status carried by
// the error, defaulting to 500. Router sentinels map to their statuses.
func (a *App) handleError(ctx *Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var httpErr response.HTTPError
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Code
		message = httpErr.Message
	case errors.Is(err, router.ErrNotFound):
		status = http.StatusNotFound
		message = "not found"
	case errors.Is(err, router.ErrMethodNotAllowed):
		status = http.StatusMethodNotAllowed
		message = "method not allowed"
	default:
		a.log.ErrorContext(ctx, "request failed", logger.Error(err))
	}

	w := ctx.ResponseWriter()
	if ww, ok := w.(interface{ Written() bool }); ok && ww.Written() {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}
