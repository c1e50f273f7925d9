package binder

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/certpanel/certpanel/core/handler"
)

// Path returns a binder that populates struct fields tagged `path:"name"`
// from route parameters resolved through the given context.
func Path(ctx handler.Context) Binder {
	return func(r *http.Request, v any) error {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return ErrInvalidTarget
		}

		values := map[string][]string{}
		rt := rv.Elem().Type()
		for i := 0; i < rt.NumField(); i++ {
			name := rt.Field(i).Tag.Get("path")
			if name == "" || name == "-" {
				continue
			}
			name, _, _ = strings.Cut(name, ",")
			if val := ctx.Param(name); val != "" {
				values[name] = []string{val}
			}
		}

		return bindValues(v, "path", values)
	}
}
