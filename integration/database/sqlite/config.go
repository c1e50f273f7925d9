package sqlite

import "time"

// Config holds SQLite connection settings sourced from the environment.
// The datasource is a file path; parent directories are created on connect.
type Config struct {
	Path          string        `env:"SQLITE_PATH" envDefault:"/data/certs.sqlite3"`
	BusyTimeout   time.Duration `env:"SQLITE_BUSY_TIMEOUT" envDefault:"5s"`
	RetryAttempts int           `env:"SQLITE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"SQLITE_RETRY_INTERVAL" envDefault:"1s"`
}
