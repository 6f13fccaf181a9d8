package field

import (
	"fmt"
	"reflect"
)

// Definition builds a field for a schema entry.
type Definition interface {
	Build(key string, mutators MutatorSet, h *Handler, fields Fields) (Controller, error)
	ValueType() reflect.Type
}

// Def is the schema entry for a field holding values of type T.
type Def[T any] struct {
	Default T
	Props   Props
}

// ValueType returns T.
func (Def[T]) ValueType() reflect.Type {
	return reflect.TypeFor[T]()
}

// Build creates the field. Mutators for a different value type are rejected
// with ErrMutatorType.
func (d Def[T]) Build(key string, mutators MutatorSet, h *Handler, fields Fields) (Controller, error) {
	typed, ok := mutatorsFor[T](mutators)
	if !ok {
		return nil, fmt.Errorf("%w: field %q holds %s, got %T",
			ErrMutatorType, key, d.ValueType(), mutators)
	}
	return New(key, d, typed, h, fields), nil
}
