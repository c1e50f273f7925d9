package webapp

import (
	"crypto/subtle"
	"net/http"

	"github.com/certpanel/certpanel/core/binder"
	"github.com/certpanel/certpanel/core/handler"
	"github.com/certpanel/certpanel/core/response"
)

type cronQuery struct {
	Token string `query:"token"`
}

type cronResult struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	JobID  int64  `json:"job_id,omitempty"`
	Status string `json:"status,omitempty"`
}

// handleCronRenew is the token-guarded renewal trigger for external
// schedulers. An unset CRON_TOKEN disables the endpoint; the comparison
// is constant-time. The job outcome is reported in the JSON envelope,
// never as an HTTP failure.
func (a *App) handleCronRenew(ctx *Context) handler.Response {
	var q cronQuery
	_ = binder.Query()(ctx.Request(), &q)

	if a.cfg.CronToken == "" ||
		subtle.ConstantTimeCompare([]byte(q.Token), []byte(a.cfg.CronToken)) != 1 {
		return response.JSONWithStatus(cronResult{OK: false, Error: "unauthorized"}, http.StatusUnauthorized)
	}

	job, err := a.orch.CronRenewAll(ctx)
	if err != nil {
		return response.Error(err)
	}

	return response.JSON(cronResult{OK: true, JobID: job.ID, Status: job.Status})
}
