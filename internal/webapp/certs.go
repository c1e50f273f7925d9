package webapp

import (
	"errors"
	"strings"

	"github.com/certpanel/certpanel/core/binder"
	"github.com/certpanel/certpanel/core/handler"
	"github.com/certpanel/certpanel/core/response"
	"github.com/certpanel/certpanel/internal/orchestrator"
)

type issueForm struct {
	AccountID int64  `form:"account_id"`
	Domains   string `form:"domains"`
}

type renewOneForm struct {
	Name string `form:"name"`
}

// handleIssueHTTP starts a webroot issuance job. Validation failures
// (unknown account, empty domain list) are discarded silently; the job
// outcome itself never turns into an HTTP error.
func (a *App) handleIssueHTTP(ctx *Context) handler.Response {
	var form issueForm
	if err := binder.Form()(ctx.Request(), &form); err != nil {
		return response.RedirectSeeOther("/")
	}

	_, err := a.orch.IssueHTTP(ctx, form.AccountID, form.Domains)
	if err != nil && !errors.Is(err, orchestrator.ErrAccountNotFound) && !errors.Is(err, orchestrator.ErrNoDomains) {
		return response.Error(err)
	}

	return response.RedirectSeeOther("/")
}

// handleRenewAll runs a blanket renewal across all lineages.
func (a *App) handleRenewAll(ctx *Context) handler.Response {
	if _, err := a.orch.RenewAll(ctx); err != nil {
		return response.Error(err)
	}
	return response.RedirectSeeOther("/")
}

// handleRenewOne renews a single lineage by name. A blank name is
// discarded.
func (a *App) handleRenewOne(ctx *Context) handler.Response {
	var form renewOneForm
	if err := binder.Form()(ctx.Request(), &form); err != nil {
		return response.RedirectSeeOther("/")
	}

	form.Name = strings.TrimSpace(form.Name)
	if form.Name == "" {
		return response.RedirectSeeOther("/")
	}

	if _, err := a.orch.RenewOne(ctx, form.Name); err != nil {
		return response.Error(err)
	}
	return response.RedirectSeeOther("/")
}
