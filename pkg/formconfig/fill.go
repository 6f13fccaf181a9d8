package formconfig

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Coerce converts a decoded JSON or YAML value into the field's type. Strings
// are parsed like text input.
func (s FieldSpec) Coerce(value any) (any, error) {
	if raw, ok := value.(string); ok && s.Type != TypeString {
		return s.Parse(raw)
	}
	var (
		out any
		err error
	)
	switch s.Type {
	case TypeString, "":
		out, err = toString(value)
	case TypeNumber:
		out, err = toFloat(value)
	case TypeInteger:
		out, err = toInt(value)
	case TypeBool:
		out, err = toBool(value)
	case TypeList:
		out, err = toList(value)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownType, s.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("formconfig: field %q: %w", s.Key, err)
	}
	return out, nil
}

// Fill sets field values from a document shaped like form.Values: nested maps
// address dotted keys. Fields are set in definition order. Values naming no
// field fail with ErrUnknownField before anything is set.
func (d *Definition) Fill(f *form.Form, values map[string]any) error {
	flat := make(map[string]any)
	d.flatten("", values, flat)

	var unknown []string
	for key := range flat {
		if _, ok := d.Field(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %s", ErrUnknownField, strings.Join(unknown, ", "))
	}

	for _, spec := range d.Fields {
		raw, ok := flat[spec.Key]
		if !ok {
			continue
		}
		value, err := spec.Coerce(raw)
		if err != nil {
			return err
		}
		c, ok := f.Field(spec.Key)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, spec.Key)
		}
		if err := c.SetAny(value); err != nil {
			return fmt.Errorf("formconfig: %w", err)
		}
	}
	return nil
}

// flatten stops descending at map values that belong to a field.
func (d *Definition) flatten(prefix string, value any, out map[string]any) {
	m, ok := value.(map[string]any)
	if !ok || (prefix != "" && d.hasField(prefix)) {
		out[prefix] = value
		return
	}
	for key, v := range m {
		next := key
		if prefix != "" {
			next = prefix + "." + key
		}
		d.flatten(next, v, out)
	}
}

func (d *Definition) hasField(key string) bool {
	_, ok := d.Field(key)
	return ok
}
