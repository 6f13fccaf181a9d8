package form

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/goliatone/go-formstate/pkg/dispatch"
	"github.com/goliatone/go-formstate/pkg/field"
)

// State is the aggregate form state.
type State struct {
	Valid   bool `json:"valid"`
	Touched bool `json:"touched"`
	Changed bool `json:"changed"`
}

// Form owns the fields built from one schema and the handler they share.
type Form struct {
	handler  *field.Handler
	loop     *dispatch.Loop
	schema   *Schema
	registry *field.Registry
	closed   bool
}

// New builds the fields of schema and validates, in schema order, every field
// whose validation is enabled and requested on init. Mutator sets whose value
// type does not match their definition fail with field.ErrMutatorType.
func New(schema *Schema, mutators Mutators, opts ...Option) (*Form, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}
	if err := schema.Err(); err != nil {
		return nil, err
	}

	h := field.NewHandler()
	loop, _ := h.Loop()

	f := &Form{handler: h, loop: loop}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	registry, err := f.build(schema, mutators)
	if err != nil {
		return nil, err
	}
	f.schema = schema
	f.registry = registry

	level.Debug(f.logger()).Log("msg", "form built", "fields", registry.Len())
	f.validateOnInit()
	return f, nil
}

func (f *Form) build(schema *Schema, mutators Mutators) (*field.Registry, error) {
	registry := field.NewRegistry()
	for _, key := range schema.keys {
		def := schema.defs[key]
		c, err := def.Build(key, mutators[key], f.handler, registry)
		if err != nil {
			return nil, fmt.Errorf("form: build %q: %w", key, err)
		}
		if err := registry.Add(c); err != nil {
			return nil, fmt.Errorf("form: %w", err)
		}
	}
	for key := range mutators {
		if _, ok := schema.defs[key]; !ok {
			level.Warn(f.logger()).Log("msg", "mutators for unknown field ignored", "field", key)
		}
	}
	return registry, nil
}

func (f *Form) validateOnInit() {
	f.registry.Each(func(c field.Controller) bool {
		if c.ValidateEnabled() && c.ValidateOnInit() {
			c.Validate(true)
		}
		return true
	})
}

// Use is called on every host render with the schema currently in use. Fields
// are rebuilt only when schema is a different pointer; the rebuild discards
// all field state, cancels pending debounced validations and drops in-flight
// results. The init validation does not run again. It reports whether a
// rebuild happened.
func (f *Form) Use(schema *Schema, mutators Mutators) (bool, error) {
	if f.closed {
		return false, ErrClosed
	}
	if schema == nil {
		return false, ErrNilSchema
	}
	if schema == f.schema {
		return false, nil
	}
	if err := schema.Err(); err != nil {
		return false, err
	}

	registry, err := f.build(schema, mutators)
	if err != nil {
		return false, err
	}
	f.closeFields()
	f.handler.Dispose()
	f.schema = schema
	f.registry = registry

	level.Debug(f.logger()).Log("msg", "form rebuilt", "fields", registry.Len())
	return true, nil
}

// Schema returns the schema the fields were built from.
func (f *Form) Schema() *Schema { return f.schema }

// Loop returns the form's own loop, or nil when WithDispatcher replaced it.
func (f *Form) Loop() *dispatch.Loop {
	if d, ok := f.handler.Dispatcher.(*dispatch.Loop); ok && d == f.loop {
		return f.loop
	}
	return nil
}

// Handler exposes the state shared by the fields.
func (f *Form) Handler() *field.Handler { return f.handler }

// Valid reports whether no field holds validation errors.
func (f *Form) Valid() bool { return f.handler.Counters.Errors.IsZero() }

// Touched reports whether any field was touched.
func (f *Form) Touched() bool { return !f.handler.Counters.Touched.IsZero() }

// Changed reports whether any field differs from its default.
func (f *Form) Changed() bool { return !f.handler.Counters.Changed.IsZero() }

// State returns the three aggregates together.
func (f *Form) State() State {
	return State{Valid: f.Valid(), Touched: f.Touched(), Changed: f.Changed()}
}

// Loading reports whether any field has asynchronous work in flight.
func (f *Form) Loading() bool {
	loading := false
	f.registry.Each(func(c field.Controller) bool {
		loading = c.Phase() == field.PhaseLoading
		return !loading
	})
	return loading
}

// Fields returns the read-only field view.
func (f *Form) Fields() field.Fields { return f.registry }

// Field returns the field stored under key.
func (f *Form) Field(key string) (field.Controller, bool) {
	return f.registry.Get(key)
}

// Validate validates every field in order. Use force to validate values that
// were already validated, e.g. before a submit. It renders once afterwards,
// running the interceptor for each field whose validity or phase flipped.
// Called while renders are suppressed it only validates.
func (f *Form) Validate(force bool) {
	var changed []field.Controller
	f.handler.Guard.Run(func() {
		f.registry.Each(func(c field.Controller) bool {
			valid, phase := c.Valid(), c.Phase()
			c.Validate(force)
			if c.Valid() != valid || c.Phase() != phase {
				changed = append(changed, c)
			}
			return true
		})
	})
	f.handler.RenderFor(f.registry, changed...)
}

// Errors returns the payload of every invalid field.
func (f *Form) Errors() map[string]error {
	out := make(map[string]error)
	f.registry.Each(func(c field.Controller) bool {
		if err := c.Errors(); err != nil {
			out[c.Key()] = err
		}
		return true
	})
	return out
}

// Close resets the counters, forgets in-flight requests and cancels pending
// debounced validations. It is safe to call more than once.
func (f *Form) Close() {
	if f.closed {
		return
	}
	f.closed = true
	f.closeFields()
	f.handler.Dispose()
	level.Debug(f.logger()).Log("msg", "form closed")
}

// Closed reports whether Close was called.
func (f *Form) Closed() bool { return f.closed }

func (f *Form) closeFields() {
	f.registry.Each(func(c field.Controller) bool {
		c.Close()
		return true
	})
}

func (f *Form) logger() log.Logger {
	if f.handler.Logger == nil {
		return log.NewNopLogger()
	}
	return f.handler.Logger
}
