package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// PEM file names certbot writes into each live certificate directory.
const (
	PEMFullchain = "fullchain"
	PEMPrivkey   = "privkey"
	PEMCert      = "cert"
	PEMChain     = "chain"
)

// PEMFiles lists the live directory contents in canonical export order.
var PEMFiles = []string{PEMFullchain, PEMPrivkey, PEMCert, PEMChain}

// Layout maps accounts and certificates onto the filesystem. Every
// account owns a certbot directory triple (config, work, logs) under the
// data root, and issued certificates live at
// accounts/{id}/config/live/{name}/.
type Layout struct {
	DataDir string
}

// AccountDir returns the root directory of an account.
func (l Layout) AccountDir(accountID int64) string {
	return filepath.Join(l.DataDir, "accounts", strconv.FormatInt(accountID, 10))
}

// ConfigDir returns the certbot --config-dir of an account.
func (l Layout) ConfigDir(accountID int64) string {
	return filepath.Join(l.AccountDir(accountID), "config")
}

// WorkDir returns the certbot --work-dir of an account.
func (l Layout) WorkDir(accountID int64) string {
	return filepath.Join(l.AccountDir(accountID), "work")
}

// LogsDir returns the certbot --logs-dir of an account.
func (l Layout) LogsDir(accountID int64) string {
	return filepath.Join(l.AccountDir(accountID), "logs")
}

// LiveDir returns the directory holding all live certificates of an account.
func (l Layout) LiveDir(accountID int64) string {
	return filepath.Join(l.ConfigDir(accountID), "live")
}

// CertDir returns the live directory of a named certificate.
func (l Layout) CertDir(accountID int64, name string) string {
	return filepath.Join(l.LiveDir(accountID), name)
}

// PEMPath returns the path of one PEM file in a certificate's live
// directory, e.g. fullchain.pem.
func (l Layout) PEMPath(accountID int64, name, which string) string {
	return filepath.Join(l.CertDir(accountID, name), which+".pem")
}

// AccountsDir returns the directory holding all account trees.
func (l Layout) AccountsDir() string {
	return filepath.Join(l.DataDir, "accounts")
}

// EnsureAccountDirs creates the config, work, and logs directories of an
// account. Existing directories are left untouched.
func (l Layout) EnsureAccountDirs(accountID int64) error {
	for _, dir := range []string{l.ConfigDir(accountID), l.WorkDir(accountID), l.LogsDir(accountID)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create account dir %s: %w", dir, err)
		}
	}
	return nil
}
