// Package orchestrator drives the job lifecycle: record a running job,
// invoke certbot, and finalize the job with the captured outcome. Jobs
// run synchronously in the calling request.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/certpanel/certpanel/core/logger"
	"github.com/certpanel/certpanel/internal/certbot"
	"github.com/certpanel/certpanel/internal/storage"
	"github.com/certpanel/certpanel/internal/toolexec"
)

var (
	// ErrAccountNotFound means issuance was requested for an account
	// that does not exist. No job is recorded.
	ErrAccountNotFound = errors.New("orchestrator: account not found")

	// ErrNoDomains means the domain list was empty after normalization.
	// No job is recorded.
	ErrNoDomains = errors.New("orchestrator: no domains")
)

// Orchestrator coordinates storage and certbot for the four job kinds.
//
// Issuance holds a per-account lock so concurrent requests for the same
// account cannot race on its certbot directories. Renew operations hold a
// single global lock because certbot renew walks every lineage.
type Orchestrator struct {
	accounts storage.AccountRepository
	jobs     storage.JobRepository
	certbot  *certbot.Client
	layout   storage.Layout
	webroot  string
	log      *slog.Logger

	renewMu      sync.Mutex
	accountMu    map[int64]*sync.Mutex
	accountMuGen sync.Mutex
}

// New creates an orchestrator.
func New(
	accounts storage.AccountRepository,
	jobs storage.JobRepository,
	cb *certbot.Client,
	layout storage.Layout,
	webroot string,
	log *slog.Logger,
) *Orchestrator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{
		accounts:  accounts,
		jobs:      jobs,
		certbot:   cb,
		layout:    layout,
		webroot:   webroot,
		log:       log.With(logger.Component("orchestrator")),
		accountMu: make(map[int64]*sync.Mutex),
	}
}

// IssueHTTP requests a new certificate for the account via HTTP-01
// webroot validation. The raw domain string is split on commas and
// whitespace; empty tokens are dropped.
func (o *Orchestrator) IssueHTTP(ctx context.Context, accountID int64, domainsRaw string) (storage.Job, error) {
	account, err := o.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Job{}, ErrAccountNotFound
		}
		return storage.Job{}, fmt.Errorf("load account: %w", err)
	}

	domains := NormalizeDomains(domainsRaw)
	if len(domains) == 0 {
		return storage.Job{}, ErrNoDomains
	}

	mu := o.lockForAccount(accountID)
	mu.Lock()
	defer mu.Unlock()

	if err := o.layout.EnsureAccountDirs(accountID); err != nil {
		return storage.Job{}, err
	}

	domainsJoined := strings.Join(domains, " ")
	job, err := o.jobs.Create(ctx, storage.CreateJobParams{
		Kind:      storage.JobKindIssueHTTP,
		AccountID: &account.ID,
		Domains:   &domainsJoined,
	})
	if err != nil {
		return storage.Job{}, fmt.Errorf("create job: %w", err)
	}

	// A started job runs to completion or hits the invoker's timeout. The
	// request context must not cut it short: a client disconnect would
	// kill certbot mid-issuance and strand the job at running.
	runCtx := context.WithoutCancel(ctx)

	result, runErr := o.certbot.Issue(runCtx, certbot.IssueParams{
		Email:     account.Email,
		Webroot:   o.webroot,
		ConfigDir: o.layout.ConfigDir(accountID),
		WorkDir:   o.layout.WorkDir(accountID),
		LogsDir:   o.layout.LogsDir(accountID),
		Staging:   account.Staging,
		Domains:   domains,
	})

	return o.finalize(runCtx, job, result, runErr)
}

// RenewAll renews every due certificate across all lineages.
func (o *Orchestrator) RenewAll(ctx context.Context) (storage.Job, error) {
	return o.renew(ctx, storage.JobKindRenewAll, "")
}

// RenewOne renews a single certificate lineage by name.
func (o *Orchestrator) RenewOne(ctx context.Context, certName string) (storage.Job, error) {
	return o.renew(ctx, storage.JobKindRenewOne, certName)
}

// CronRenewAll is RenewAll recorded under the cron job kind, so scheduled
// and manual renewals stay distinguishable in the job history.
func (o *Orchestrator) CronRenewAll(ctx context.Context) (storage.Job, error) {
	return o.renew(ctx, storage.JobKindCronRenewAll, "")
}

func (o *Orchestrator) renew(ctx context.Context, kind, certName string) (storage.Job, error) {
	o.renewMu.Lock()
	defer o.renewMu.Unlock()

	params := storage.CreateJobParams{Kind: kind}
	if certName != "" {
		params.Domains = &certName
	}

	job, err := o.jobs.Create(ctx, params)
	if err != nil {
		return storage.Job{}, fmt.Errorf("create job: %w", err)
	}

	// Detached from the request context for the same reason as issuance:
	// a disconnect must not kill certbot or leave the job unfinalized.
	runCtx := context.WithoutCancel(ctx)

	var (
		result toolexec.Result
		runErr error
	)
	if certName != "" {
		result, runErr = o.certbot.RenewOne(runCtx, certName, o.webroot)
	} else {
		result, runErr = o.certbot.RenewAll(runCtx, o.webroot)
	}

	return o.finalize(runCtx, job, result, runErr)
}

// finalize records the outcome in a single update. An invocation error
// (launch failure or timeout) is stored as a failed job with the error
// text in stderr rather than surfacing as an HTTP failure.
func (o *Orchestrator) finalize(ctx context.Context, job storage.Job, result toolexec.Result, runErr error) (storage.Job, error) {
	finishedAt := time.Now().UTC()

	status := storage.JobStatusOK
	stdout := result.Stdout
	stderr := result.Stderr

	switch {
	case runErr != nil:
		status = storage.JobStatusFailed
		stdout = ""
		stderr = "Exception: " + runErr.Error()
	case result.ExitCode != 0:
		status = storage.JobStatusFailed
	}

	if err := o.jobs.Finalize(ctx, job.ID, status, finishedAt, stdout, stderr); err != nil {
		return storage.Job{}, fmt.Errorf("finalize job %d: %w", job.ID, err)
	}

	o.log.InfoContext(ctx, "job finished",
		logger.JobID(job.ID),
		slog.String("kind", job.Kind),
		slog.String("status", status),
	)

	job.Status = status
	job.FinishedAt = &finishedAt
	job.Stdout = &stdout
	job.Stderr = &stderr
	return job, nil
}

func (o *Orchestrator) lockForAccount(accountID int64) *sync.Mutex {
	o.accountMuGen.Lock()
	defer o.accountMuGen.Unlock()

	mu, ok := o.accountMu[accountID]
	if !ok {
		mu = &sync.Mutex{}
		o.accountMu[accountID] = mu
	}
	return mu
}

// NormalizeDomains splits a raw form value on commas and whitespace,
// trims each token, and drops empties.
func NormalizeDomains(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	domains := make([]string, 0, len(fields))
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			domains = append(domains, field)
		}
	}
	return domains
}
