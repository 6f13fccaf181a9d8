package field

import "fmt"

// Controller is the type-erased view of a field. Every *Field[T] implements
// it; use Lookup for typed access.
type Controller interface {
	Key() string
	Any() any
	DefaultAny() any
	SetAny(value any) error
	Reset()

	Phase() Phase
	Touched() bool
	Changed() bool
	Valid() bool
	Errors() error

	Props() Props
	SetProps(props Props)

	Validate(force bool)
	ValidateEnabled() bool
	ValidateOnInit() bool

	Render()
	Close()
}

// Fields is the read-only registry view handed to validators, masks and
// interceptors.
type Fields interface {
	Get(key string) (Controller, bool)
	Keys() []string
	Len() int
	Each(fn func(Controller) bool)
}

// Registry is an ordered collection of fields owned by a form.
type Registry struct {
	keys  []string
	items map[string]Controller
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Controller)}
}

// Add appends c. Keys must be unique.
func (r *Registry) Add(c Controller) error {
	if c == nil {
		return fmt.Errorf("field: add nil controller")
	}
	key := c.Key()
	if _, exists := r.items[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	r.keys = append(r.keys, key)
	r.items[key] = c
	return nil
}

// Get returns the field stored under key.
func (r *Registry) Get(key string) (Controller, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.items[key]
	return c, ok
}

// Keys returns field keys in insertion order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.keys...)
}

// Len returns the number of fields.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Each calls fn for every field in order until fn returns false.
func (r *Registry) Each(fn func(Controller) bool) {
	if r == nil || fn == nil {
		return
	}
	for _, key := range r.keys {
		if !fn(r.items[key]) {
			return
		}
	}
}

// Lookup returns the field under key when it holds values of type T.
func Lookup[T any](fields Fields, key string) (*Field[T], bool) {
	if fields == nil {
		return nil, false
	}
	c, ok := fields.Get(key)
	if !ok {
		return nil, false
	}
	f, ok := c.(*Field[T])
	return f, ok
}
