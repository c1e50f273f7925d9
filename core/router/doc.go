// Package router provides a small generic HTTP router with type-safe
// handlers, {param} path segments, middleware chaining, panic recovery,
// and pluggable error handling.
//
// Routes with more literal segments win over parameterized ones, so a
// literal route like "/export/{id}/{name}/bundle.zip" takes precedence
// over "/export/{id}/{name}/{which}" for the same path.
package router
