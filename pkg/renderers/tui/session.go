package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formconfig"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// PropMultiline marks a string field that is edited in a text area.
const PropMultiline = "multiline"

const defaultMaxAttempts = 3

// Session walks a form definition in the terminal. Every answer goes through
// the form's fields, so masks and validators run exactly as they would in any
// other host.
type Session struct {
	def               *formconfig.Definition
	driver            PromptDriver
	out               io.Writer
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
	logger            log.Logger
	formOptions       []form.Option
	renders           int
}

// Result is what a session collected.
type Result struct {
	Values map[string]any
	State  form.State
	Errors map[string]error
	Fields []FieldState
}

// FieldState is the final state of one field.
type FieldState struct {
	Key     string
	Value   any
	Touched bool
	Changed bool
	Valid   bool
	Errors  error
}

// New constructs a session with defaults (survey driver on stdout, JSON
// output).
func New(def *formconfig.Definition, options ...Option) (*Session, error) {
	if def == nil {
		return nil, ErrNilDefinition
	}
	s := &Session{
		def:          def,
		outputFormat: OutputFormatJSON,
		maxAttempts:  defaultMaxAttempts,
		logger:       log.NewNopLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(s.output())
	}
	return s, nil
}

// ContentType reports the serialization format used by Encode.
func (s *Session) ContentType() string {
	switch s.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Renders reports how many times the form asked for a render during the last
// Run.
func (s *Session) Renders() int { return s.renders }

// Run prompts for every visible field in definition order. An answer that fails
// validation is shown with its issues and asked again, up to the attempt
// limit; after that the invalid value is kept. Every field is validated once
// more before the result is collected.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.renders = 0
	opts := append([]form.Option{
		form.WithLogger(s.logger),
		form.WithRender(func() { s.renders++ }),
	}, s.formOptions...)
	f, err := s.def.NewForm(opts...)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	defer f.Close()

	if s.def.Title != "" {
		if err := s.info(ctx, s.def.Title); err != nil {
			return nil, err
		}
	}

	for _, spec := range s.def.Fields {
		c, ok := f.Field(spec.Key)
		if !ok || visibility.Hidden(c) {
			continue
		}
		if err := s.promptField(ctx, f, spec, c); err != nil {
			return nil, err
		}
	}

	f.Validate(true)
	settle(f)

	result := Collect(f)
	if s.submitTransformer != nil {
		values, err := s.submitTransformer(result.Values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
		result.Values = values
	}
	level.Debug(s.logger).Log("msg", "session finished", "valid", result.State.Valid, "renders", s.renders)
	return result, nil
}

// Collect snapshots the values and state of every field of f.
func Collect(f *form.Form) *Result {
	result := &Result{Values: f.Values(), State: f.State(), Errors: f.Errors()}
	f.Fields().Each(func(c field.Controller) bool {
		result.Fields = append(result.Fields, FieldState{
			Key:     c.Key(),
			Value:   c.Any(),
			Touched: c.Touched(),
			Changed: c.Changed(),
			Valid:   c.Valid(),
			Errors:  c.Errors(),
		})
		return true
	})
	return result
}

func (s *Session) promptField(ctx context.Context, f *form.Form, spec formconfig.FieldSpec, c field.Controller) error {
	for attempt := 1; ; attempt++ {
		value, err := s.ask(ctx, spec, c)
		if err != nil {
			return err
		}
		if err := c.SetAny(value); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		settle(f)
		c.Validate(false)

		if c.Valid() {
			return nil
		}
		if err := s.report(ctx, spec, c.Errors()); err != nil {
			return err
		}
		if attempt >= s.maxAttempts {
			level.Warn(s.logger).Log("msg", "keeping invalid value", "field", spec.Key, "attempts", attempt)
			return nil
		}
	}
}

func (s *Session) ask(ctx context.Context, spec formconfig.FieldSpec, c field.Controller) (any, error) {
	label := spec.Label
	current := c.Any()

	switch {
	case spec.Type == formconfig.TypeBool:
		def, _ := current.(bool)
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: def, Help: spec.Help})
		if err != nil {
			return nil, err
		}
		return ok, nil

	case spec.Type == formconfig.TypeList && len(spec.Options) > 0:
		selected, _ := current.([]string)
		idx, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  spec.Options,
			Defaults: indicesOf(spec.Options, selected),
			Help:     spec.Help,
		})
		if err != nil {
			return nil, err
		}
		return valuesAt(spec.Options, idx), nil

	case spec.Type == formconfig.TypeString && len(spec.Options) > 0:
		selected, _ := current.(string)
		for {
			idx, err := s.driver.Select(ctx, SelectConfig{
				Message:      label,
				Options:      spec.Options,
				DefaultIndex: indexOf(spec.Options, selected),
				Help:         spec.Help,
			})
			if err != nil {
				return nil, err
			}
			if idx >= 0 && idx < len(spec.Options) {
				return spec.Options[idx], nil
			}
			if err := s.fail(ctx, fmt.Sprintf("Invalid %s selection", spec.Key)); err != nil {
				return nil, err
			}
		}

	case spec.Type == formconfig.TypeString && isMultiline(spec):
		text, _ := current.(string)
		answer, err := s.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: text, Help: spec.Help})
		if err != nil {
			return nil, err
		}
		return answer, nil
	}

	cfg := InputConfig{
		Message:   label,
		Default:   displayValue(current),
		Help:      spec.Help,
		Validator: func(raw string) error { _, err := spec.Parse(raw); return err },
	}
	for {
		var raw string
		var err error
		if spec.Secret {
			raw, err = s.driver.Password(ctx, cfg)
		} else {
			raw, err = s.driver.Input(ctx, cfg)
		}
		if err != nil {
			return nil, err
		}
		value, err := spec.Parse(raw)
		if err == nil {
			return value, nil
		}
		if err := s.fail(ctx, err.Error()); err != nil {
			return nil, err
		}
	}
}

func (s *Session) report(ctx context.Context, spec formconfig.FieldSpec, err error) error {
	for _, issue := range validation.IssuesOf(err) {
		msg := fmt.Sprintf("Invalid %s: %s", spec.Key, issue.Message)
		if issue.Field != "" {
			msg = fmt.Sprintf("Invalid %s.%s: %s", spec.Key, issue.Field, issue.Message)
		}
		if err := s.fail(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) info(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, s.theme.InfoPrefix+msg)
}

func (s *Session) fail(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, s.theme.ErrorPrefix+msg)
}

func (s *Session) output() io.Writer {
	if s.out == nil {
		return os.Stdout
	}
	return s.out
}

// settle runs continuations queued on the form's loop.
func settle(f *form.Form) {
	if loop := f.Loop(); loop != nil {
		loop.Drain()
	}
}

func isMultiline(spec formconfig.FieldSpec) bool {
	v, _ := spec.Props[PropMultiline].(bool)
	return v
}

func displayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprint(v)
	}
}
