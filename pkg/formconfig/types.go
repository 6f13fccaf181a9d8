package formconfig

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Field value types understood by the loader.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBool    = "bool"
	TypeList    = "list"
)

// Definition is a loaded form document.
type Definition struct {
	Title       string
	Description string
	Source      string
	Fields      []FieldSpec

	schema     *form.Schema
	mutators   form.Mutators
	visibility *visibility.Rules
}

// Schema returns the form schema. The pointer is stable, so passing it to
// form.Use on every render never rebuilds the fields.
func (d *Definition) Schema() *form.Schema { return d.schema }

// Mutators returns the mutator sets keyed by field.
func (d *Definition) Mutators() form.Mutators { return d.mutators }

// Visibility returns the visibleWhen rules keyed by field.
func (d *Definition) Visibility() *visibility.Rules { return d.visibility }

// NewForm builds a form from the definition. When fields declare visibleWhen
// rules the form gets an interceptor that maintains their hidden prop; an
// interceptor passed in opts replaces it.
func (d *Definition) NewForm(opts ...form.Option) (*form.Form, error) {
	if d.visibility.Len() > 0 {
		opts = append([]form.Option{form.WithInterceptor(d.visibility.Interceptor())}, opts...)
	}
	f, err := form.New(d.schema, d.mutators, opts...)
	if err != nil {
		return nil, err
	}
	d.visibility.Apply(f.Fields())
	return f, nil
}

// Field returns the spec stored under key.
func (d *Definition) Field(key string) (FieldSpec, bool) {
	for _, spec := range d.Fields {
		if spec.Key == key {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// FieldSpec is the display side of a field definition. Label, Help, Options
// and Secret are also copied into the field props under the same lower-case
// names.
type FieldSpec struct {
	Key         string
	Type        string
	Label       string
	Help        string
	Options     []string
	Secret      bool
	VisibleWhen string
	Props       field.Props
}

// Prop keys written by the loader.
const (
	PropLabel   = "label"
	PropHelp    = "help"
	PropOptions = "options"
	PropSecret  = "secret"
	PropType    = "type"
)

type documentFile struct {
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Fields      []fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Key         string         `json:"key" yaml:"key"`
	Type        string         `json:"type" yaml:"type"`
	Label       string         `json:"label" yaml:"label"`
	Help        string         `json:"help" yaml:"help"`
	Options     []string       `json:"options" yaml:"options"`
	Secret      bool           `json:"secret" yaml:"secret"`
	Default     any            `json:"default" yaml:"default"`
	Props       map[string]any `json:"props" yaml:"props"`
	Mask        nameList       `json:"mask" yaml:"mask"`
	VisibleWhen string         `json:"visibleWhen" yaml:"visibleWhen"`
	Validate    *validateFile  `json:"validate" yaml:"validate"`
}

type validateFile struct {
	Rules           []ruleFile     `json:"rules" yaml:"rules"`
	OpenAPI         map[string]any `json:"openapi" yaml:"openapi"`
	CUE             string         `json:"cue" yaml:"cue"`
	CUEDefinition   string         `json:"cueDefinition" yaml:"cueDefinition"`
	OnInit          bool           `json:"onInit" yaml:"onInit"`
	OnChange        bool           `json:"onChange" yaml:"onChange"`
	Debounce        string         `json:"debounce" yaml:"debounce"`
	DebounceLoading bool           `json:"debounceLoading" yaml:"debounceLoading"`
	Disabled        bool           `json:"disabled" yaml:"disabled"`
}

// RuleConfig is one entry of a field's rules list. A bare string is
// shorthand for a rule without arguments.
type RuleConfig struct {
	Name    string `json:"name" yaml:"name"`
	Value   any    `json:"value" yaml:"value"`
	Values  []any  `json:"values" yaml:"values"`
	Message string `json:"message" yaml:"message"`
}

type ruleFile RuleConfig

func (r *ruleFile) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(data, &r.Name)
	}
	return json.Unmarshal(data, (*RuleConfig)(r))
}

func (r *ruleFile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Name = node.Value
		return nil
	}
	return node.Decode((*RuleConfig)(r))
}

// nameList accepts a single name or a list of names.
type nameList []string

func (n *nameList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*n = splitNames(single)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*n = list
	return nil
}

func (n *nameList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*n = splitNames(node.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*n = list
		return nil
	default:
		return fmt.Errorf("formconfig: mask must be a name or a list of names (line %d)", node.Line)
	}
}

func splitNames(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
