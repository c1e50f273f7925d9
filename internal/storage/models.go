package storage

import "time"

// Job kinds.
const (
	JobKindIssueHTTP    = "issue_http"
	JobKindRenewAll     = "renew_all"
	JobKindRenewOne     = "renew_one"
	JobKindCronRenewAll = "cron_renew_all"
)

// Job statuses. A job is created running and finalized exactly once.
const (
	JobStatusRunning = "running"
	JobStatusOK      = "ok"
	JobStatusFailed  = "failed"
)

// Account is a Let's Encrypt registration identity. Each account owns an
// isolated certbot directory tree under the data root.
type Account struct {
	ID        int64
	Name      string
	Email     string
	Staging   bool
	CreatedAt time.Time
}

// Job records a single external tool invocation. Optional columns are
// pointers: AccountID and Domains only apply to issuance, FinishedAt and
// the output fields are set on finalization.
type Job struct {
	ID         int64
	AccountID  *int64
	Kind       string
	Domains    *string
	Status     string
	CreatedAt  time.Time
	FinishedAt *time.Time
	Stdout     *string
	Stderr     *string
}
