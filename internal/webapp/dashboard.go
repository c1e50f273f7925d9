package webapp

import (
	"github.com/certpanel/certpanel/core/handler"
	"github.com/certpanel/certpanel/core/response"
)

// handleDashboard renders the single-page overview: all accounts, the
// most recent jobs, and every certificate found on disk.
func (a *App) handleDashboard(ctx *Context) handler.Response {
	accounts, err := a.accounts.ListAll(ctx)
	if err != nil {
		return response.Error(err)
	}

	jobs, err := a.jobs.ListRecent(ctx, recentJobsLimit)
	if err != nil {
		return response.Error(err)
	}

	certs := a.scan.List(ctx)

	return response.Template(a.pages["home"], "layout", homeView{
		Accounts:       accounts,
		Jobs:           jobs,
		Certs:          certs,
		DefaultEmail:   a.cfg.DefaultEmail,
		DefaultStaging: a.cfg.DefaultStaging,
	})
}
