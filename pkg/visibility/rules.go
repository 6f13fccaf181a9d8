package visibility

import (
	"maps"

	"github.com/goliatone/go-formstate/pkg/field"
)

// PropHidden is the prop set on fields whose rule evaluates to false.
const PropHidden = "hidden"

// Rules maps field keys to the rule that decides whether they are shown.
type Rules struct {
	keys  []string
	rules map[string]*Rule
	deps  map[string]struct{}
}

// NewRules returns an empty rule set.
func NewRules() *Rules {
	return &Rules{rules: make(map[string]*Rule), deps: make(map[string]struct{})}
}

// Add sets the rule for key, replacing any previous one. Nil rules are
// ignored.
func (r *Rules) Add(key string, rule *Rule) *Rules {
	if rule == nil {
		return r
	}
	if _, exists := r.rules[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.rules[key] = rule
	for _, dep := range rule.deps {
		r.deps[dep] = struct{}{}
	}
	return r
}

// Len reports how many fields have a rule.
func (r *Rules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Rule returns the rule for key.
func (r *Rules) Rule(key string) (*Rule, bool) {
	if r == nil {
		return nil, false
	}
	rule, ok := r.rules[key]
	return rule, ok
}

// Apply evaluates every rule in insertion order and flips the hidden prop of
// fields whose visibility changed. Fields that are not in fields are skipped.
func (r *Rules) Apply(fields field.Fields) {
	if r == nil || fields == nil {
		return
	}
	lookup := FieldsLookup(fields)
	for _, key := range r.keys {
		c, ok := fields.Get(key)
		if !ok {
			continue
		}
		hidden := !r.rules[key].Eval(lookup)
		if Hidden(c) == hidden {
			continue
		}
		props := maps.Clone(c.Props())
		if props == nil {
			props = field.Props{}
		}
		props[PropHidden] = hidden
		c.SetProps(props)
	}
}

// Interceptor returns a form interceptor that re-applies the rules whenever a
// field they read changes.
func (r *Rules) Interceptor() func(changed field.Controller, fields field.Fields) {
	return func(changed field.Controller, fields field.Fields) {
		if changed == nil {
			return
		}
		if _, ok := r.deps[changed.Key()]; !ok {
			return
		}
		r.Apply(fields)
	}
}

// Hidden reports whether c carries a true hidden prop.
func Hidden(c field.Controller) bool {
	if c == nil {
		return false
	}
	hidden, _ := c.Props()[PropHidden].(bool)
	return hidden
}

// FieldsLookup resolves identifiers to field values.
func FieldsLookup(fields field.Fields) Lookup {
	return func(key string) (any, bool) {
		c, ok := fields.Get(key)
		if !ok {
			return nil, false
		}
		return c.Any(), true
	}
}
