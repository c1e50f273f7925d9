package handler

import (
	"context"
	"net/http"
)

// Context defines the contract for request contexts passed to handlers.
// Implementations embed the request's context.Context and expose the raw
// request/response pair plus routing parameters.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}
