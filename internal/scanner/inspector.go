package scanner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/certpanel/certpanel/internal/toolexec"
)

// notAfterLayout matches openssl's default enddate formatting,
// e.g. "notAfter=Mar  1 12:00:00 2026 GMT".
const notAfterLayout = "Jan 2 15:04:05 2006 MST"

// DefaultInspectTimeout bounds a single openssl probe.
const DefaultInspectTimeout = 5 * time.Second

// OpenSSLInspector reads certificate expiry by shelling out to openssl.
type OpenSSLInspector struct {
	bin     string
	runner  toolexec.Runner
	timeout time.Duration
}

// NewOpenSSLInspector creates an inspector. An empty bin defaults to
// "openssl" on PATH, a zero timeout to DefaultInspectTimeout.
func NewOpenSSLInspector(bin string, runner toolexec.Runner, timeout time.Duration) *OpenSSLInspector {
	if bin == "" {
		bin = "openssl"
	}
	if timeout <= 0 {
		timeout = DefaultInspectTimeout
	}
	return &OpenSSLInspector{bin: bin, runner: runner, timeout: timeout}
}

// Expiry runs `openssl x509 -in <cert> -noout -enddate` and parses the
// notAfter line. It returns the parsed time and the raw date string.
func (i *OpenSSLInspector) Expiry(ctx context.Context, certPath string) (time.Time, string, error) {
	result, err := i.runner.Run(ctx, i.timeout, i.bin, "x509", "-in", certPath, "-noout", "-enddate")
	if err != nil {
		return time.Time{}, "", fmt.Errorf("inspect %s: %w", certPath, err)
	}
	if result.ExitCode != 0 {
		return time.Time{}, "", fmt.Errorf("inspect %s: openssl exited %d: %s",
			certPath, result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	return parseEndDate(result.Stdout)
}

func parseEndDate(output string) (time.Time, string, error) {
	for _, line := range strings.Split(output, "\n") {
		raw, ok := strings.CutPrefix(strings.TrimSpace(line), "notAfter=")
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)

		// openssl pads single-digit days with a double space.
		normalized := strings.Join(strings.Fields(raw), " ")
		expires, err := time.Parse(notAfterLayout, normalized)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("parse notAfter %q: %w", raw, err)
		}
		return expires, raw, nil
	}
	return time.Time{}, "", fmt.Errorf("no notAfter line in openssl output")
}
