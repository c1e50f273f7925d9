// Package certbot builds and runs certbot command lines. All ACME
// protocol work is delegated to the external certbot binary; this package
// only shapes arguments and captures output.
package certbot

import (
	"context"
	"time"

	"github.com/certpanel/certpanel/internal/toolexec"
)

// DefaultTimeout bounds a single certbot invocation. Issuance can involve
// DNS propagation waits and ACME server retries.
const DefaultTimeout = 20 * time.Minute

// IssueParams describes a webroot issuance run for one account.
type IssueParams struct {
	Email     string
	Webroot   string
	ConfigDir string
	WorkDir   string
	LogsDir   string
	Staging   bool
	Domains   []string
}

// Client invokes the certbot binary through a Runner.
type Client struct {
	bin     string
	runner  toolexec.Runner
	timeout time.Duration
}

// New creates a certbot client. An empty bin defaults to "certbot" on
// PATH, a zero timeout to DefaultTimeout.
func New(bin string, runner toolexec.Runner, timeout time.Duration) *Client {
	if bin == "" {
		bin = "certbot"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{bin: bin, runner: runner, timeout: timeout}
}

// IssueArgs builds the certonly argument list for HTTP-01 webroot issuance.
func IssueArgs(p IssueParams) []string {
	args := []string{
		"certonly",
		"--non-interactive",
		"--agree-tos",
		"--no-eff-email",
		"--email", p.Email,
		"--webroot", "-w", p.Webroot,
		"--config-dir", p.ConfigDir,
		"--work-dir", p.WorkDir,
		"--logs-dir", p.LogsDir,
	}
	if p.Staging {
		args = append(args, "--staging")
	}
	for _, domain := range p.Domains {
		args = append(args, "-d", domain)
	}
	return args
}

// RenewAllArgs builds the argument list renewing every due certificate.
func RenewAllArgs(webroot string) []string {
	return []string{"renew", "--webroot", "-w", webroot}
}

// RenewOneArgs builds the argument list renewing a single certificate by
// its lineage name.
func RenewOneArgs(certName, webroot string) []string {
	return []string{"renew", "--cert-name", certName, "--webroot", "-w", webroot}
}

// Issue runs certonly for the given parameters.
func (c *Client) Issue(ctx context.Context, p IssueParams) (toolexec.Result, error) {
	return c.runner.Run(ctx, c.timeout, c.bin, IssueArgs(p)...)
}

// RenewAll runs a blanket renew across all lineages.
func (c *Client) RenewAll(ctx context.Context, webroot string) (toolexec.Result, error) {
	return c.runner.Run(ctx, c.timeout, c.bin, RenewAllArgs(webroot)...)
}

// RenewOne renews a single lineage.
func (c *Client) RenewOne(ctx context.Context, certName, webroot string) (toolexec.Result, error) {
	return c.runner.Run(ctx, c.timeout, c.bin, RenewOneArgs(certName, webroot)...)
}
