package response

import (
	"fmt"
	"net/http"
)

// HTTPError is an error carrying an HTTP status code. The router's default
// error handler inspects the StatusCode method to pick the response status.
type HTTPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewHTTPError creates an HTTPError with the given status code. If message
// is empty the standard status text is used.
func NewHTTPError(code int, message string) HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return HTTPError{Code: code, Message: message}
}

func (e HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// StatusCode returns the HTTP status code associated with the error.
func (e HTTPError) StatusCode() int {
	return e.Code
}

// WithMessage returns a copy of the error with a different message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// Predefined errors for common HTTP status codes.
var (
	ErrBadRequest          = NewHTTPError(http.StatusBadRequest, "")
	ErrUnauthorized        = NewHTTPError(http.StatusUnauthorized, "")
	ErrForbidden           = NewHTTPError(http.StatusForbidden, "")
	ErrNotFound            = NewHTTPError(http.StatusNotFound, "")
	ErrMethodNotAllowed    = NewHTTPError(http.StatusMethodNotAllowed, "")
	ErrConflict            = NewHTTPError(http.StatusConflict, "")
	ErrUnprocessableEntity = NewHTTPError(http.StatusUnprocessableEntity, "")
	ErrTooManyRequests     = NewHTTPError(http.StatusTooManyRequests, "")
	ErrInternalServerError = NewHTTPError(http.StatusInternalServerError, "")
	ErrServiceUnavailable  = NewHTTPError(http.StatusServiceUnavailable, "")
)
