package binder

import "net/http"

// Binder populates a struct from a part of the incoming request.
// Implementations exist for form bodies, query strings, and path parameters.
type Binder func(r *http.Request, v any) error
