package form

import (
	"strings"

	"github.com/goliatone/go-formstate/pkg/field"
)

// nested marks maps created by path expansion so field values that are maps
// themselves are never written into.
type nested map[string]any

// Values returns the current value of every field. Dotted keys such as
// "address.city" are expanded into nested maps; a dotted key that collides
// with another field's value keeps its dotted form.
func (f *Form) Values() map[string]any {
	root := make(nested, f.registry.Len())
	var dotted []field.Controller
	f.registry.Each(func(c field.Controller) bool {
		if strings.Contains(c.Key(), ".") {
			dotted = append(dotted, c)
			return true
		}
		root[c.Key()] = c.Any()
		return true
	})
	for _, c := range dotted {
		if !setPath(root, c.Key(), c.Any()) {
			root[c.Key()] = c.Any()
		}
	}
	return root.plain()
}

func setPath(root nested, path string, value any) bool {
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return false
		}
	}

	current := root
	for _, segment := range segments[:len(segments)-1] {
		switch next := current[segment].(type) {
		case nil:
			if _, exists := current[segment]; exists {
				return false
			}
			child := nested{}
			current[segment] = child
			current = child
		case nested:
			current = next
		default:
			return false
		}
	}

	last := segments[len(segments)-1]
	if _, exists := current[last]; exists {
		return false
	}
	current[last] = value
	return true
}

func (n nested) plain() map[string]any {
	out := make(map[string]any, len(n))
	for k, v := range n {
		if child, ok := v.(nested); ok {
			out[k] = child.plain()
			continue
		}
		out[k] = v
	}
	return out
}
