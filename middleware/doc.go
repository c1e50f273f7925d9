// Package middleware provides router middleware for request tracing and
// structured request logging.
package middleware
