package orchestrator_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/certpanel/certpanel/integration/database/sqlite"
	"github.com/certpanel/certpanel/internal/certbot"
	"github.com/certpanel/certpanel/internal/orchestrator"
	"github.com/certpanel/certpanel/internal/storage"
	"github.com/certpanel/certpanel/internal/storage/migrations"
	"github.com/certpanel/certpanel/internal/toolexec"
)

// scriptedRunner returns a fixed result and records every invocation.
type scriptedRunner struct {
	result toolexec.Result
	err    error
	calls  [][]string
}

func (s *scriptedRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (toolexec.Result, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	return s.result, s.err
}

type fixture struct {
	orch     *orchestrator.Orchestrator
	accounts storage.AccountRepository
	jobs     storage.JobRepository
	runner   *scriptedRunner
	layout   storage.Layout
}

func newFixture(t *testing.T, runner *scriptedRunner) *fixture {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db, migrations.FS))

	accounts := storage.NewAccountRepository(db)
	jobs := storage.NewJobRepository(db)
	layout := storage.Layout{DataDir: t.TempDir()}
	cb := certbot.New("certbot", runner, time.Minute)

	return &fixture{
		orch:     orchestrator.New(accounts, jobs, cb, layout, "/var/www/acme-challenges", nil),
		accounts: accounts,
		jobs:     jobs,
		runner:   runner,
		layout:   layout,
	}
}

func TestIssueHTTPSuccess(t *testing.T) {
	runner := &scriptedRunner{result: toolexec.Result{ExitCode: 0, Stdout: "Congratulations!"}}
	f := newFixture(t, runner)
	ctx := context.Background()

	account, err := f.accounts.Create(ctx, "prod", "ops@example.com", true)
	require.NoError(t, err)

	job, err := f.orch.IssueHTTP(ctx, account.ID, "example.com, www.example.com")
	require.NoError(t, err)

	assert.Equal(t, storage.JobStatusOK, job.Status)
	assert.Equal(t, storage.JobKindIssueHTTP, job.Kind)
	require.NotNil(t, job.Domains)
	assert.Equal(t, "example.com www.example.com", *job.Domains)
	require.NotNil(t, job.Stdout)
	assert.Equal(t, "Congratulations!", *job.Stdout)
	require.NotNil(t, job.FinishedAt)

	// Account directories were created before invoking certbot.
	assert.DirExists(t, f.layout.ConfigDir(account.ID))
	assert.DirExists(t, f.layout.WorkDir(account.ID))
	assert.DirExists(t, f.layout.LogsDir(account.ID))

	// Staging account gets the staging flag.
	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "--staging")
	assert.Contains(t, runner.calls[0], "example.com")
	assert.Contains(t, runner.calls[0], "www.example.com")

	// The stored row matches the returned job.
	stored, err := f.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.JobStatusOK, stored.Status)
}

func TestIssueHTTPNonZeroExitFails(t *testing.T) {
	runner := &scriptedRunner{result: toolexec.Result{ExitCode: 1, Stderr: "rate limited"}}
	f := newFixture(t, runner)
	ctx := context.Background()

	account, err := f.accounts.Create(ctx, "prod", "ops@example.com", false)
	require.NoError(t, err)

	job, err := f.orch.IssueHTTP(ctx, account.ID, "example.com")
	require.NoError(t, err)

	assert.Equal(t, storage.JobStatusFailed, job.Status)
	require.NotNil(t, job.Stderr)
	assert.Equal(t, "rate limited", *job.Stderr)
}

func TestIssueHTTPInvocationErrorRecordedAsException(t *testing.T) {
	runner := &scriptedRunner{err: errors.New("certbot: executable not found")}
	f := newFixture(t, runner)
	ctx := context.Background()

	account, err := f.accounts.Create(ctx, "prod", "ops@example.com", false)
	require.NoError(t, err)

	job, err := f.orch.IssueHTTP(ctx, account.ID, "example.com")
	require.NoError(t, err)

	assert.Equal(t, storage.JobStatusFailed, job.Status)
	require.NotNil(t, job.Stdout)
	assert.Empty(t, *job.Stdout)
	require.NotNil(t, job.Stderr)
	assert.Equal(t, "Exception: certbot: executable not found", *job.Stderr)
}

func TestIssueHTTPUnknownAccountCreatesNoJob(t *testing.T) {
	runner := &scriptedRunner{}
	f := newFixture(t, runner)
	ctx := context.Background()

	_, err := f.orch.IssueHTTP(ctx, 999, "example.com")
	assert.ErrorIs(t, err, orchestrator.ErrAccountNotFound)

	jobs, err := f.jobs.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Empty(t, runner.calls)
}

func TestIssueHTTPEmptyDomainsCreatesNoJob(t *testing.T) {
	runner := &scriptedRunner{}
	f := newFixture(t, runner)
	ctx := context.Background()

	account, err := f.accounts.Create(ctx, "prod", "ops@example.com", false)
	require.NoError(t, err)

	for _, raw := range []string{"", "   ", ", ,, ", "\t\n"} {
		_, err = f.orch.IssueHTTP(ctx, account.ID, raw)
		assert.ErrorIs(t, err, orchestrator.ErrNoDomains, "input %q", raw)
	}

	jobs, err := f.jobs.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Empty(t, runner.calls)
}

func TestRenewAll(t *testing.T) {
	runner := &scriptedRunner{result: toolexec.Result{ExitCode: 0}}
	f := newFixture(t, runner)

	job, err := f.orch.RenewAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, storage.JobKindRenewAll, job.Kind)
	assert.Equal(t, storage.JobStatusOK, job.Status)
	assert.Nil(t, job.AccountID)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"certbot", "renew", "--webroot", "-w", "/var/www/acme-challenges"}, runner.calls[0])
}

func TestRenewOne(t *testing.T) {
	runner := &scriptedRunner{result: toolexec.Result{ExitCode: 0}}
	f := newFixture(t, runner)

	job, err := f.orch.RenewOne(context.Background(), "example.com")
	require.NoError(t, err)

	assert.Equal(t, storage.JobKindRenewOne, job.Kind)
	require.NotNil(t, job.Domains)
	assert.Equal(t, "example.com", *job.Domains)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"certbot", "renew", "--cert-name", "example.com", "--webroot", "-w", "/var/www/acme-challenges"}, runner.calls[0])
}

func TestCronRenewAllUsesCronKind(t *testing.T) {
	runner := &scriptedRunner{result: toolexec.Result{ExitCode: 0}}
	f := newFixture(t, runner)

	job, err := f.orch.CronRenewAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, storage.JobKindCronRenewAll, job.Kind)
	assert.Equal(t, storage.JobStatusOK, job.Status)
}

// disconnectingRunner cancels the request context while the tool is
// running, the way a closed client connection would, and reports whether
// the invocation context was canceled along with it.
type disconnectingRunner struct {
	cancel      context.CancelFunc
	result      toolexec.Result
	ctxCanceled bool
}

func (d *disconnectingRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (toolexec.Result, error) {
	d.cancel()
	d.ctxCanceled = ctx.Err() != nil
	return d.result, nil
}

func TestIssueHTTPSurvivesClientDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := &disconnectingRunner{cancel: cancel, result: toolexec.Result{ExitCode: 0, Stdout: "issued"}}

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db, migrations.FS))

	accounts := storage.NewAccountRepository(db)
	jobs := storage.NewJobRepository(db)
	orch := orchestrator.New(accounts, jobs, certbot.New("certbot", runner, time.Minute),
		storage.Layout{DataDir: t.TempDir()}, "/w", nil)

	account, err := accounts.Create(ctx, "prod", "ops@example.com", false)
	require.NoError(t, err)

	job, err := orch.IssueHTTP(ctx, account.ID, "example.com")
	require.NoError(t, err)

	// The invocation runs on a detached context and the job is still
	// finalized even though the request context is gone.
	assert.False(t, runner.ctxCanceled)
	assert.Equal(t, storage.JobStatusOK, job.Status)
	require.NotNil(t, job.FinishedAt)

	stored, err := jobs.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.JobStatusOK, stored.Status)
	assert.NotNil(t, stored.FinishedAt)
}

func TestRenewAllSurvivesClientDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := &disconnectingRunner{cancel: cancel, result: toolexec.Result{ExitCode: 0}}

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db, migrations.FS))

	jobs := storage.NewJobRepository(db)
	orch := orchestrator.New(storage.NewAccountRepository(db), jobs,
		certbot.New("certbot", runner, time.Minute),
		storage.Layout{DataDir: t.TempDir()}, "/w", nil)

	job, err := orch.RenewAll(ctx)
	require.NoError(t, err)

	assert.False(t, runner.ctxCanceled)
	assert.Equal(t, storage.JobStatusOK, job.Status)

	stored, err := jobs.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.JobStatusOK, stored.Status)
}

func TestNormalizeDomains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want []string
	}{
		{"a.com, b.com ,, c.com", []string{"a.com", "b.com", "c.com"}},
		{"a.com b.com\tc.com", []string{"a.com", "b.com", "c.com"}},
		{"a.com\nb.com", []string{"a.com", "b.com"}},
		{"  single.example  ", []string{"single.example"}},
		{"", nil},
		{", , ,", nil},
	}

	for _, tt := range tests {
		got := orchestrator.NormalizeDomains(tt.raw)
		if tt.want == nil {
			assert.Empty(t, got, "input %q", tt.raw)
		} else {
			assert.Equal(t, tt.want, got, "input %q", tt.raw)
		}
	}
}
