package binder

import "errors"

var (
	// ErrInvalidTarget is returned when the bind target is not a non-nil
	// pointer to a struct.
	ErrInvalidTarget = errors.New("binder: target must be a non-nil pointer to a struct")

	// ErrUnsupportedType is returned when a struct field has a type the
	// binder cannot populate.
	ErrUnsupportedType = errors.New("binder: unsupported field type")

	// ErrParseFailure is returned when a request value cannot be converted
	// to the field's type.
	ErrParseFailure = errors.New("binder: failed to parse value")

	// ErrBodyRead is returned when the request body cannot be read or parsed.
	ErrBodyRead = errors.New("binder: failed to read request body")
)
