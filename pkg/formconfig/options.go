package formconfig

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formstate/pkg/masks"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/validation/rules"
)

// RuleFactory builds a validator from a rules entry.
type RuleFactory func(cfg RuleConfig) (validation.Schema, error)

// Option customises a load.
type Option func(*loader)

// WithMaskRegistry resolves mask names through reg instead of the built-in
// registry.
func WithMaskRegistry(reg *masks.Registry) Option {
	return func(l *loader) {
		if reg != nil {
			l.masks = reg
		}
	}
}

// WithRule registers a rule factory. Names are case-insensitive and replace
// built-in rules of the same name.
func WithRule(name string, factory RuleFactory) Option {
	return func(l *loader) {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || factory == nil {
			return
		}
		l.rules[key] = factory
	}
}

type loader struct {
	masks *masks.Registry
	rules map[string]RuleFactory
}

func newLoader(opts []Option) *loader {
	l := &loader{
		masks: masks.NewRegistry(),
		rules: builtinRules(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func (l *loader) rule(cfg RuleConfig) (validation.Schema, error) {
	factory, ok := l.rules[strings.ToLower(strings.TrimSpace(cfg.Name))]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRule, cfg.Name)
	}
	return factory(cfg)
}

func builtinRules() map[string]RuleFactory {
	simple := func(build func() rules.Rule) RuleFactory {
		return func(cfg RuleConfig) (validation.Schema, error) {
			return build().WithMessage(cfg.Message), nil
		}
	}
	withString := func(name string, build func(string) rules.Rule) RuleFactory {
		return func(cfg RuleConfig) (validation.Schema, error) {
			s, ok := cfg.Value.(string)
			if !ok {
				return nil, fmt.Errorf("formconfig: rule %s needs a string value, got %T", name, cfg.Value)
			}
			return build(s).WithMessage(cfg.Message), nil
		}
	}
	return map[string]RuleFactory{
		"required":  simple(rules.Required),
		"phone":     simple(rules.Phone),
		"rut":       simple(rules.RUT),
		"empty":     simple(rules.Empty),
		"equals":    withString("equals", rules.Equals),
		"notequals": withString("notEquals", rules.NotEquals),
		"has":       withString("has", rules.Has),
		"includes": func(cfg RuleConfig) (validation.Schema, error) {
			values := cfg.Values
			if len(values) == 0 && cfg.Value != nil {
				values = []any{cfg.Value}
			}
			if len(values) == 0 {
				return nil, fmt.Errorf("formconfig: rule includes needs values")
			}
			return rules.Includes(values...).WithMessage(cfg.Message), nil
		},
	}
}
