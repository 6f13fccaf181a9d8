package field

import (
	"reflect"
	"time"

	"github.com/goliatone/go-formstate/pkg/async"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Outcome is what a custom validate function produces: an immediate result or
// a pending one.
type Outcome struct {
	err     error
	pending *async.Future[error]
}

// Pass reports a valid value.
func Pass() Outcome { return Outcome{} }

// Fail reports err as the validation payload. Fail(nil) is Pass.
func Fail(err error) Outcome { return Outcome{err: err} }

// Pending defers the result to fut. A nil future is treated as Pass.
func Pending(fut *async.Future[error]) Outcome { return Outcome{pending: fut} }

// Err returns the immediate payload.
func (o Outcome) Err() error { return o.err }

// Future returns the pending result, or nil for immediate outcomes.
func (o Outcome) Future() *async.Future[error] { return o.pending }

// ValidateFunc is a custom validator. It runs with renders suppressed, so it
// may mutate sibling fields.
type ValidateFunc[T any] func(f *Field[T], fields Fields) Outcome

// MaskFunc transforms a value. It must be pure and synchronous.
type MaskFunc[T any] func(value T, fields Fields) T

// Validate describes how a field validates. Schema takes precedence over
// Apply when both are set.
type Validate[T any] struct {
	Apply  ValidateFunc[T]
	Schema validation.Schema

	// OnInit runs a forced validation when the form is built, or right away
	// when passed to SetValidate.
	OnInit bool
	// OnChange validates (possibly debounced) after every Set and Reset.
	OnChange bool
	// Debounce delays OnChange validation; zero validates immediately.
	Debounce time.Duration
	// DebounceLoading flips the field to loading while the debounce is armed.
	DebounceLoading bool
	Disabled        bool
}

// Configured reports whether a validator is present, regardless of Disabled.
func (v Validate[T]) Configured() bool {
	return v.Apply != nil || v.Schema != nil
}

// Enabled reports whether validation runs without being forced.
func (v Validate[T]) Enabled() bool {
	return v.Configured() && !v.Disabled
}

// Mask describes the value transform applied after every change.
type Mask[T any] struct {
	Apply    MaskFunc[T]
	Disabled bool
}

// Enabled reports whether the mask is applied.
func (m Mask[T]) Enabled() bool {
	return m.Apply != nil && !m.Disabled
}

// Mutators is the per-field behaviour set. A nil Equal selects Identity.
type Mutators[T any] struct {
	Validate Validate[T]
	Mask     Mask[T]
	Equal    func(a, b T) bool
}

// MutatorSet is the type-erased form of Mutators used by schemas.
type MutatorSet interface {
	valueType() reflect.Type
}

func (Mutators[T]) valueType() reflect.Type {
	return reflect.TypeFor[T]()
}

func mutatorsFor[T any](set MutatorSet) (Mutators[T], bool) {
	switch m := set.(type) {
	case nil:
		return Mutators[T]{}, true
	case Mutators[T]:
		return m, true
	case *Mutators[T]:
		if m == nil {
			return Mutators[T]{}, true
		}
		return *m, true
	default:
		return Mutators[T]{}, false
	}
}

// validator is the capability validate() talks to.
type validator[T any] interface {
	validate(f *Field[T]) Outcome
}

type schemaValidator[T any] struct {
	schema validation.Schema
}

func (s schemaValidator[T]) validate(f *Field[T]) Outcome {
	return Fail(s.schema.Validate(f.value))
}

type funcValidator[T any] struct {
	apply ValidateFunc[T]
}

func (v funcValidator[T]) validate(f *Field[T]) Outcome {
	var out Outcome
	f.handler.Guard.Run(func() {
		out = v.apply(f, f.fields)
	})
	return out
}

func newValidator[T any](v Validate[T]) validator[T] {
	switch {
	case v.Schema != nil:
		return schemaValidator[T]{schema: v.Schema}
	case v.Apply != nil:
		return funcValidator[T]{apply: v.Apply}
	default:
		return nil
	}
}
