// Package config loads typed configuration from environment variables
// using `env` struct tags, with optional .env file support for local
// development.
//
// Usage:
//
//	type AppConfig struct {
//		Port  int    `env:"PORT" envDefault:"8080"`
//		DBDSN string `env:"DATABASE_DSN,required"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
package config
