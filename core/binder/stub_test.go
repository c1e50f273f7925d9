package binder_test

import (
	"context"
	"net/http"
	"time"
)

// stubContext is a minimal handler.Context for binder tests.
type stubContext struct {
	r      *http.Request
	w      http.ResponseWriter
	params map[string]string
}

func (c *stubContext) Request() *http.Request              { return c.r }
func (c *stubContext) ResponseWriter() http.ResponseWriter { return c.w }
func (c *stubContext) Param(key string) string             { return c.params[key] }
func (c *stubContext) SetValue(key, val any)               {}

func (c *stubContext) Deadline() (time.Time, bool) { return time.Time{}, false }
func (c *stubContext) Done() <-chan struct{}       { return nil }
func (c *stubContext) Err() error                  { return nil }
func (c *stubContext) Value(key any) any           { return context.Background().Value(key) }
