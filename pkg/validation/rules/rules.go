// Package rules provides small reusable validators for common form checks.
// Every rule is a validation.Schema and rules compose with All.
package rules

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/rut"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Rule is a named predicate with a failure message.
type Rule struct {
	name    string
	check   func(value any) bool
	message func(value any) string
}

// Name identifies the rule, e.g. "equals".
func (r Rule) Name() string { return r.name }

// Validate returns nil when the predicate holds and a single-issue payload
// otherwise.
func (r Rule) Validate(value any) error {
	if r.check == nil || r.check(value) {
		return nil
	}
	return validation.Message(r.message(value))
}

// WithMessage returns a copy of r reporting msg on failure. An empty msg
// keeps the default.
func (r Rule) WithMessage(msg string) Rule {
	if msg == "" {
		return r
	}
	r.message = func(any) string { return msg }
	return r
}

// All combines schemas, collecting every failing issue.
func All(schemas ...validation.Schema) validation.Schema {
	return validation.All(schemas...)
}

// Required fails for nil, blank strings and empty lists or maps. Numbers and
// booleans always pass.
func Required() Rule {
	return Rule{
		name: "required",
		check: func(value any) bool {
			if value == nil {
				return false
			}
			if s, ok := asString(value); ok {
				return strings.TrimSpace(s) != ""
			}
			rv := reflect.ValueOf(value)
			switch rv.Kind() {
			case reflect.Slice, reflect.Map, reflect.Array:
				return rv.Len() > 0
			case reflect.Pointer, reflect.Interface:
				return !rv.IsNil()
			default:
				return true
			}
		},
		message: func(any) string {
			return "is a required field"
		},
	}
}

// Equals passes when value is the string want.
func Equals(want string) Rule {
	return Rule{
		name: "equals",
		check: func(value any) bool {
			s, ok := asString(value)
			return ok && s == want
		},
		message: func(value any) string {
			return fmt.Sprintf("must be equals to %s, but the final value was: %v", want, value)
		},
	}
}

// NotEquals passes when value is anything other than the string other.
func NotEquals(other string) Rule {
	return Rule{
		name: "notEquals",
		check: func(value any) bool {
			s, ok := asString(value)
			return !ok || s != other
		},
		message: func(any) string {
			return "must be different to " + other
		},
	}
}

// Phone passes for empty strings and Chilean phone numbers.
func Phone() Rule {
	return Rule{
		name: "phone",
		check: func(value any) bool {
			s, ok := asString(value)
			if !ok {
				return value == nil
			}
			return s == "" || validation.IsPhone(s)
		},
		message: func(value any) string {
			return fmt.Sprintf("must be a valid phone, but the final value was: %v", value)
		},
	}
}

// RUT passes for empty strings and RUTs with a correct check digit.
func RUT() Rule {
	return Rule{
		name: "rut",
		check: func(value any) bool {
			s, ok := asString(value)
			if !ok {
				return value == nil
			}
			return s == "" || rut.IsValid(s)
		},
		message: func(value any) string {
			return fmt.Sprintf("must be a valid R.U.T., but the final value was: %v", value)
		},
	}
}

// Has passes when value is a string-keyed map containing prop, or a struct
// with an exported field named prop.
func Has(prop string) Rule {
	return Rule{
		name: "has",
		check: func(value any) bool {
			return hasProperty(value, prop)
		},
		message: func(any) string {
			return "must has " + prop + " property"
		},
	}
}

// Empty passes for non-nil slices and arrays with no elements.
func Empty() Rule {
	return Rule{
		name: "empty",
		check: func(value any) bool {
			rv, ok := list(value)
			return ok && rv.Len() == 0
		},
		message: func(any) string {
			return "must be an empty array"
		},
	}
}

// Includes passes when the list value contains at least one of elems.
// Elements are compared with cmp.Equal.
func Includes(elems ...any) Rule {
	return Rule{
		name: "includes",
		check: func(value any) bool {
			rv, ok := list(value)
			if !ok {
				return false
			}
			for i := 0; i < rv.Len(); i++ {
				item := rv.Index(i).Interface()
				for _, want := range elems {
					if cmp.Equal(item, want) {
						return true
					}
				}
			}
			return false
		},
		message: func(any) string {
			return "does not includes required elements"
		},
	}
}

func asString(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	if s, ok := value.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func list(value any) (reflect.Value, bool) {
	if value == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice:
		return rv, !rv.IsNil()
	case reflect.Array:
		return rv, true
	default:
		return reflect.Value{}, false
	}
}

func hasProperty(value any, prop string) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return false
		}
		key := reflect.ValueOf(prop).Convert(rv.Type().Key())
		return rv.MapIndex(key).IsValid()
	case reflect.Struct:
		sf, ok := rv.Type().FieldByName(prop)
		return ok && sf.IsExported()
	default:
		return false
	}
}
