package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formstate/pkg/field"
)

// Schema lists field definitions in order. Forms compare schemas by pointer:
// passing a different *Schema to Use rebuilds every field even when the
// contents are equal.
type Schema struct {
	keys []string
	defs map[string]field.Definition
	err  error
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{defs: make(map[string]field.Definition)}
}

// Add appends a definition and returns the schema for chaining. Invalid or
// duplicate keys are reported by Err and by form.New.
func (s *Schema) Add(key string, def field.Definition) *Schema {
	if s.err != nil {
		return s
	}
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		s.err = fmt.Errorf("form: schema field key is empty")
	case def == nil:
		s.err = fmt.Errorf("form: schema field %q has no definition", key)
	default:
		if _, exists := s.defs[key]; exists {
			s.err = fmt.Errorf("form: schema field %q: %w", key, field.ErrDuplicateKey)
			return s
		}
		s.keys = append(s.keys, key)
		s.defs[key] = def
	}
	return s
}

// Err returns the first error recorded by Add.
func (s *Schema) Err() error {
	if s == nil {
		return nil
	}
	return s.err
}

// Keys returns field keys in order.
func (s *Schema) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Len returns the number of definitions.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Definition returns the definition stored under key.
func (s *Schema) Definition(key string) (field.Definition, bool) {
	if s == nil {
		return nil, false
	}
	def, ok := s.defs[key]
	return def, ok
}

// Mutators maps field keys to their mutator sets, e.g.
// form.Mutators{"email": field.Mutators[string]{...}}.
type Mutators map[string]field.MutatorSet
