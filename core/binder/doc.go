// Package binder maps request data onto tagged structs. Form bodies use
// `form` tags, query strings use `query` tags, and route parameters use
// `path` tags. Missing values leave fields at their zero value.
package binder
