// Package scanner discovers issued certificates on disk and probes their
// expiry dates. It trusts the filesystem over the database: account
// directories are scanned whether or not a matching account row exists.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Certificate is one live certificate found under an account's config
// tree. Expiry fields are nil when the probe failed; the certificate is
// still listed.
type Certificate struct {
	AccountID  string
	Name       string
	Path       string
	Expires    *time.Time
	ExpiresRaw *string
	DaysLeft   *int
}

// Inspector reports the expiry of a certificate file.
type Inspector interface {
	Expiry(ctx context.Context, certPath string) (time.Time, string, error)
}

// Scanner walks the data root for live certificate directories.
type Scanner struct {
	dataDir   string
	inspector Inspector
	now       func() time.Time
}

// New creates a scanner over the given data root.
func New(dataDir string, inspector Inspector) *Scanner {
	return &Scanner{dataDir: dataDir, inspector: inspector, now: time.Now}
}

// List returns all certificates that have their fullchain, privkey, and
// cert PEM files present, ordered by account directory name then
// certificate name. Directory names sort lexicographically, so account
// "10" precedes account "2".
func (s *Scanner) List(ctx context.Context) []Certificate {
	accountsDir := filepath.Join(s.dataDir, "accounts")

	accountEntries, err := os.ReadDir(accountsDir)
	if err != nil {
		return nil
	}

	var certs []Certificate
	for _, accountEntry := range accountEntries {
		if !accountEntry.IsDir() {
			continue
		}
		accountID := accountEntry.Name()

		liveDir := filepath.Join(accountsDir, accountID, "config", "live")
		liveEntries, err := os.ReadDir(liveDir)
		if err != nil {
			continue
		}

		for _, liveEntry := range liveEntries {
			if !liveEntry.IsDir() {
				continue
			}
			name := liveEntry.Name()
			certDir := filepath.Join(liveDir, name)

			if !hasRequiredPEMs(certDir) {
				continue
			}

			cert := Certificate{
				AccountID: accountID,
				Name:      name,
				Path:      certDir,
			}
			s.probeExpiry(ctx, &cert, filepath.Join(certDir, "cert.pem"))
			certs = append(certs, cert)
		}
	}
	return certs
}

// hasRequiredPEMs checks for the three files a usable certificate needs.
// chain.pem is derivable from fullchain and not required.
func hasRequiredPEMs(certDir string) bool {
	for _, file := range []string{"fullchain.pem", "privkey.pem", "cert.pem"} {
		info, err := os.Stat(filepath.Join(certDir, file))
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

func (s *Scanner) probeExpiry(ctx context.Context, cert *Certificate, certPath string) {
	expires, raw, err := s.inspector.Expiry(ctx, certPath)
	if err != nil {
		return
	}

	cert.Expires = &expires
	cert.ExpiresRaw = &raw

	daysLeft := int(expires.Sub(s.now()).Hours() / 24)
	cert.DaysLeft = &daysLeft
}
