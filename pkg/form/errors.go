package form

import "errors"

var (
	// ErrClosed is returned by operations on a closed form.
	ErrClosed = errors.New("form: closed")
	// ErrNilSchema is returned when a form is built without a schema.
	ErrNilSchema = errors.New("form: nil schema")
)
