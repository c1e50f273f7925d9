// Package response provides composable HTTP response constructors used by
// router handlers: plain text, JSON, HTML templates, redirects, file
// downloads, and status-carrying errors.
package response
