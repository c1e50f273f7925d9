// Package storage provides the SQLite-backed repositories for accounts
// and jobs, plus the embedded schema migrations.
package storage
