package formconfig

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/masks"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

func (l *loader) build(doc documentFile, source string) (*Definition, error) {
	def := &Definition{
		Title:       strings.TrimSpace(doc.Title),
		Description: strings.TrimSpace(doc.Description),
		Source:      source,
		Fields:      make([]FieldSpec, 0, len(doc.Fields)),
		schema:      form.NewSchema(),
		mutators:    make(form.Mutators, len(doc.Fields)),
		visibility:  visibility.NewRules(),
	}

	for i, raw := range doc.Fields {
		key := strings.TrimSpace(raw.Key)
		if key == "" {
			return nil, fmt.Errorf("formconfig: file %s field #%d has no key", source, i)
		}
		spec, fieldDef, set, err := l.buildField(key, raw)
		if err != nil {
			return nil, fmt.Errorf("formconfig: file %s field %q: %w", source, key, err)
		}
		if spec.VisibleWhen != "" {
			rule, err := visibility.Compile(spec.VisibleWhen)
			if err != nil {
				return nil, fmt.Errorf("formconfig: file %s field %q: %w", source, key, err)
			}
			def.visibility.Add(key, rule)
		}
		def.schema.Add(key, fieldDef)
		def.mutators[key] = set
		def.Fields = append(def.Fields, spec)
	}
	if err := def.schema.Err(); err != nil {
		return nil, fmt.Errorf("formconfig: file %s: %w", source, err)
	}
	return def, nil
}

func (l *loader) buildField(key string, raw fieldFile) (FieldSpec, field.Definition, field.MutatorSet, error) {
	typ := strings.ToLower(strings.TrimSpace(raw.Type))
	if typ == "" {
		typ = TypeString
	}

	spec := FieldSpec{
		Key:         key,
		Type:        typ,
		Label:       raw.Label,
		Help:        raw.Help,
		Options:     append([]string(nil), raw.Options...),
		Secret:      raw.Secret,
		VisibleWhen: strings.TrimSpace(raw.VisibleWhen),
		Props:       specProps(typ, raw),
	}
	if spec.Label == "" {
		spec.Label = key
	}

	schema, err := l.validationSchema(raw.Validate)
	if err != nil {
		return FieldSpec{}, nil, nil, err
	}

	var mask masks.Func
	if len(raw.Mask) > 0 {
		if typ != TypeString {
			return FieldSpec{}, nil, nil, fmt.Errorf("masks apply to string fields, field type is %s", typ)
		}
		fn, unknown, ok := l.masks.Resolve(raw.Mask...)
		if !ok {
			return FieldSpec{}, nil, nil, fmt.Errorf("%w %q", ErrUnknownMask, unknown)
		}
		mask = fn
	}

	switch typ {
	case TypeString:
		value, err := toString(raw.Default)
		if err != nil {
			return FieldSpec{}, nil, nil, err
		}
		d, set, err := typed[string](value, spec.Props, raw.Validate, schema, nil)
		if err != nil {
			return FieldSpec{}, nil, nil, err
		}
		if mask != nil {
			set.Mask = masks.Field(mask)
		}
		return spec, d, set, nil
	case TypeNumber:
		value, err := toFloat(raw.Default)
		if err != nil {
			return FieldSpec{}, nil, nil, err
		}
		d, set, err := typed[float64](value, spec.Props, raw.Validate, schema, nil)
		return spec, d, set, err
	case TypeInteger:
		value, err := toInt(raw.Default)
		if err != nil {
			return FieldSpec{}, nil, nil, err
		}
		d, set, err := typed[int64](value, spec.Props, raw.Validate, schema, nil)
		return spec, d, set, err
	case TypeBool:
		value, err := toBool(raw.Default)
		if err != nil {
			return FieldSpec{}, nil, nil, err
		}
		d, set, err := typed[bool](value, spec.Props, raw.Validate, schema, nil)
		return spec, d, set, err
	case TypeList:
		value, err := toList(raw.Default)
		if err != nil {
			return FieldSpec{}, nil, nil, err
		}
		d, set, err := typed[[]string](value, spec.Props, raw.Validate, schema, field.DeepEqual[[]string])
		return spec, d, set, err
	default:
		return FieldSpec{}, nil, nil, fmt.Errorf("%w %q", ErrUnknownType, raw.Type)
	}
}

func typed[T any](value T, props field.Props, v *validateFile, schema validation.Schema, equal func(a, b T) bool) (field.Def[T], field.Mutators[T], error) {
	set := field.Mutators[T]{Equal: equal}
	if v != nil {
		delay, err := parseDebounce(v.Debounce)
		if err != nil {
			return field.Def[T]{}, set, err
		}
		set.Validate = field.Validate[T]{
			Schema:          schema,
			OnInit:          v.OnInit,
			OnChange:        v.OnChange,
			Debounce:        delay,
			DebounceLoading: v.DebounceLoading,
			Disabled:        v.Disabled,
		}
	}
	return field.Def[T]{Default: value, Props: props}, set, nil
}

func (l *loader) validationSchema(v *validateFile) (validation.Schema, error) {
	if v == nil {
		return nil, nil
	}
	var schemas []validation.Schema
	for _, r := range v.Rules {
		s, err := l.rule(RuleConfig(r))
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	if len(v.OpenAPI) > 0 {
		data, err := json.Marshal(v.OpenAPI)
		if err != nil {
			return nil, fmt.Errorf("encode openapi schema: %w", err)
		}
		s, err := validation.ParseOpenAPISchema(data)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	if strings.TrimSpace(v.CUE) != "" {
		s, err := validation.CompileCUE(v.CUE, v.CUEDefinition)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}

	switch len(schemas) {
	case 0:
		return nil, nil
	case 1:
		return schemas[0], nil
	default:
		return validation.All(schemas...), nil
	}
}

func parseDebounce(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("debounce: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("debounce: negative duration %s", value)
	}
	return d, nil
}

func specProps(typ string, raw fieldFile) field.Props {
	props := field.Props{}
	maps.Copy(props, raw.Props)
	props[PropType] = typ
	if raw.Label != "" {
		props[PropLabel] = raw.Label
	}
	if raw.Help != "" {
		props[PropHelp] = raw.Help
	}
	if len(raw.Options) > 0 {
		props[PropOptions] = append([]string(nil), raw.Options...)
	}
	if raw.Secret {
		props[PropSecret] = true
	}
	return props
}

// Parse converts raw text input into a value of the field's type. Lists are
// comma separated.
func (s FieldSpec) Parse(raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	switch s.Type {
	case TypeString, "":
		return raw, nil
	case TypeNumber:
		if trimmed == "" {
			return float64(0), nil
		}
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("formconfig: field %q: %q is not a number", s.Key, raw)
		}
		return v, nil
	case TypeInteger:
		if trimmed == "" {
			return int64(0), nil
		}
		v, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("formconfig: field %q: %q is not an integer", s.Key, raw)
		}
		return v, nil
	case TypeBool:
		if trimmed == "" {
			return false, nil
		}
		v, err := strconv.ParseBool(trimmed)
		if err != nil {
			return nil, fmt.Errorf("formconfig: field %q: %q is not a boolean", s.Key, raw)
		}
		return v, nil
	case TypeList:
		return splitList(raw), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownType, s.Type)
	}
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func toString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case int, int64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("default %v is not a string", value)
	}
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("default %v is not a number", value)
	}
}

func toInt(value any) (int64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("default %v overflows int64", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("default %v is not an integer", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("default %v is not an integer", value)
	}
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		return false, fmt.Errorf("default %v is not a boolean", value)
	}
}

func toList(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return []string{}, nil
	case string:
		return splitList(v), nil
	case []string:
		return append([]string{}, v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, err := toString(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("default %v is not a list", value)
	}
}
