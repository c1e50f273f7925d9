package response

import (
	"net/http"

	"github.com/certpanel/certpanel/core/handler"
)

// Error creates a response that returns the given error to the router's
// error handler without writing anything itself.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
