package binder

import "net/http"

// Query returns a binder that populates struct fields tagged `query:"name"`
// from the request's URL query string.
func Query() Binder {
	return func(r *http.Request, v any) error {
		return bindValues(v, "query", r.URL.Query())
	}
}
