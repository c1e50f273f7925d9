package response

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/certpanel/certpanel/core/handler"
)

// Template renders a named template with 200 OK status.
func Template(tmpl *template.Template, name string, data any) handler.Response {
	return TemplateWithStatus(tmpl, name, data, http.StatusOK)
}

// TemplateWithStatus renders a named template with a custom status code.
// The template is rendered into a buffer first so that a render failure
// can still be turned into an error response.
func TemplateWithStatus(tmpl *template.Template, name string, data any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
			return err
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, err := buf.WriteTo(w)
		return err
	}
}
