package certbot_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certpanel/certpanel/internal/certbot"
	"github.com/certpanel/certpanel/internal/toolexec"
)

// recordingRunner captures the last invocation instead of executing it.
type recordingRunner struct {
	name    string
	args    []string
	timeout time.Duration
	result  toolexec.Result
	err     error
}

func (r *recordingRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (toolexec.Result, error) {
	r.name = name
	r.args = args
	r.timeout = timeout
	return r.result, r.err
}

func TestIssueArgs(t *testing.T) {
	t.Parallel()

	args := certbot.IssueArgs(certbot.IssueParams{
		Email:     "ops@example.com",
		Webroot:   "/var/www/acme-challenges",
		ConfigDir: "/data/accounts/1/config",
		WorkDir:   "/data/accounts/1/work",
		LogsDir:   "/data/accounts/1/logs",
		Staging:   true,
		Domains:   []string{"example.com", "www.example.com"},
	})

	assert.Equal(t, []string{
		"certonly",
		"--non-interactive",
		"--agree-tos",
		"--no-eff-email",
		"--email", "ops@example.com",
		"--webroot", "-w", "/var/www/acme-challenges",
		"--config-dir", "/data/accounts/1/config",
		"--work-dir", "/data/accounts/1/work",
		"--logs-dir", "/data/accounts/1/logs",
		"--staging",
		"-d", "example.com",
		"-d", "www.example.com",
	}, args)
}

func TestIssueArgsProductionOmitsStaging(t *testing.T) {
	t.Parallel()

	args := certbot.IssueArgs(certbot.IssueParams{
		Email:   "ops@example.com",
		Webroot: "/w",
		Domains: []string{"example.com"},
	})
	assert.NotContains(t, args, "--staging")
}

func TestRenewArgs(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"renew", "--webroot", "-w", "/w"},
		certbot.RenewAllArgs("/w"))
	assert.Equal(t,
		[]string{"renew", "--cert-name", "example.com", "--webroot", "-w", "/w"},
		certbot.RenewOneArgs("example.com", "/w"))
}

func TestClientUsesConfiguredBinaryAndTimeout(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{result: toolexec.Result{ExitCode: 0}}
	client := certbot.New("/usr/local/bin/certbot", runner, 10*time.Minute)

	result, err := client.RenewAll(context.Background(), "/w")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "/usr/local/bin/certbot", runner.name)
	assert.Equal(t, 10*time.Minute, runner.timeout)
	assert.Equal(t, certbot.RenewAllArgs("/w"), runner.args)
}

func TestClientDefaults(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	client := certbot.New("", runner, 0)

	_, err := client.RenewOne(context.Background(), "example.com", "/w")
	require.NoError(t, err)
	assert.Equal(t, "certbot", runner.name)
	assert.Equal(t, certbot.DefaultTimeout, runner.timeout)
}
