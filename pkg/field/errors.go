package field

import "errors"

var (
	// ErrMutatorType is returned when a mutator set does not match the value
	// type of the definition it is attached to.
	ErrMutatorType = errors.New("field: mutator type mismatch")
	// ErrValueType is returned by SetAny when the value cannot be stored.
	ErrValueType = errors.New("field: value type mismatch")
	// ErrDuplicateKey is returned when a registry already holds a key.
	ErrDuplicateKey = errors.New("field: duplicate key")
)
