package binder

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const maxMultipartMemory = 10 << 20 // 10 MiB

// Form returns a binder that populates struct fields tagged `form:"name"`
// from an application/x-www-form-urlencoded or multipart/form-data body.
func Form() Binder {
	return func(r *http.Request, v any) error {
		contentType := r.Header.Get("Content-Type")

		var err error
		if strings.HasPrefix(contentType, "multipart/form-data") {
			err = r.ParseMultipartForm(maxMultipartMemory)
			if errors.Is(err, http.ErrNotMultipart) {
				err = r.ParseForm()
			}
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBodyRead, err)
		}

		return bindValues(v, "form", r.PostForm)
	}
}
