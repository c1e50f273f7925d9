package webapp

import (
	"strings"

	"github.com/certpanel/certpanel/core/binder"
	"github.com/certpanel/certpanel/core/handler"
	"github.com/certpanel/certpanel/core/logger"
	"github.com/certpanel/certpanel/core/response"
)

type createAccountForm struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Staging *bool  `form:"staging"`
}

// handleCreateAccount creates an account row and its certbot directory
// triple, then redirects back to the dashboard. Invalid input is
// discarded without recording anything. An omitted staging field means
// staging: an account only talks to production when asked explicitly.
func (a *App) handleCreateAccount(ctx *Context) handler.Response {
	var form createAccountForm
	if err := binder.Form()(ctx.Request(), &form); err != nil {
		return response.RedirectSeeOther("/")
	}

	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if form.Name == "" || form.Email == "" {
		return response.RedirectSeeOther("/")
	}

	staging := true
	if form.Staging != nil {
		staging = *form.Staging
	}

	account, err := a.accounts.Create(ctx, form.Name, form.Email, staging)
	if err != nil {
		return response.Error(err)
	}

	if err := a.layout.EnsureAccountDirs(account.ID); err != nil {
		a.log.ErrorContext(ctx, "create account dirs", logger.AccountID(account.ID), logger.Error(err))
	}

	return response.RedirectSeeOther("/")
}
