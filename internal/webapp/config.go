package webapp

import "time"

// Config holds the application settings sourced from the environment.
type Config struct {
	DataDir          string        `env:"DATA_DIR" envDefault:"/data"`
	ChallengeWebroot string        `env:"CHALLENGE_WEBROOT" envDefault:"/var/www/acme-challenges"`
	CertbotBin       string        `env:"CERTBOT_BIN" envDefault:"certbot"`
	OpenSSLBin       string        `env:"OPENSSL_BIN" envDefault:"openssl"`
	CertbotTimeout   time.Duration `env:"CERTBOT_TIMEOUT" envDefault:"20m"`
	InspectTimeout   time.Duration `env:"OPENSSL_TIMEOUT" envDefault:"5s"`

	// DefaultEmail prefills the account creation form.
	DefaultEmail string `env:"LE_DEFAULT_EMAIL"`

	// DefaultStaging prefills the staging checkbox. Defaults to the
	// staging environment so a misclick cannot burn production rate
	// limits.
	DefaultStaging bool `env:"LE_DEFAULT_STAGING" envDefault:"true"`

	// CronToken guards the renewal API endpoint. An empty token
	// disables the endpoint entirely.
	CronToken string `env:"CRON_TOKEN"`
}
