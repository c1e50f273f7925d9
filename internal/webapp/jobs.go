package webapp

import (
	"errors"
	"strconv"

	"github.com/certpanel/certpanel/core/handler"
	"github.com/certpanel/certpanel/core/response"
	"github.com/certpanel/certpanel/internal/storage"
)

// handleJobDetail renders one job with its full captured output.
// Unknown or malformed ids redirect back to the dashboard.
func (a *App) handleJobDetail(ctx *Context) handler.Response {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return response.RedirectSeeOther("/")
	}

	job, err := a.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return response.RedirectSeeOther("/")
		}
		return response.Error(err)
	}

	return response.Template(a.pages["job"], "layout", jobView{Job: job})
}
