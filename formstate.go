// Package formstate manages the state of form fields for interactive hosts:
// values, touched and changed flags, validation results and display props,
// with masking and debounced or asynchronous validation.
//
// Most programs build a form from a definition document:
//
//	def, err := formstate.LoadDefinition(os.DirFS("forms"), "signup.yaml")
//	f, err := def.NewForm(form.WithRender(redraw))
//
// or from a schema assembled in code with pkg/form and pkg/field.
package formstate

import (
	"io/fs"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formconfig"
)

// Form is the field coordinator.
type Form = form.Form

// Schema lists field definitions in order.
type Schema = form.Schema

// Mutators maps field keys to their mutator sets.
type Mutators = form.Mutators

// Option configures a Form.
type Option = form.Option

// Controller is the type-erased view of a field.
type Controller = field.Controller

// Definition is a loaded form document.
type Definition = formconfig.Definition

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return form.NewSchema()
}

// New builds a form from schema and mutators.
func New(schema *Schema, mutators Mutators, opts ...Option) (*Form, error) {
	return form.New(schema, mutators, opts...)
}

// LoadDefinition loads one JSON or YAML definition from fsys.
func LoadDefinition(fsys fs.FS, name string, opts ...formconfig.Option) (*Definition, error) {
	return formconfig.LoadFile(fsys, name, opts...)
}

// LoadDefinitions loads every definition found in fsys.
func LoadDefinitions(fsys fs.FS, opts ...formconfig.Option) (*formconfig.Store, error) {
	return formconfig.LoadFS(fsys, opts...)
}
