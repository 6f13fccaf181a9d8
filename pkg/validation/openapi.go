package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPISchema validates values against an OpenAPI 3 schema object.
type OpenAPISchema struct {
	schema *openapi3.Schema
}

// NewOpenAPISchema wraps schema. The rut and phone-cl string formats are
// registered on first use.
func NewOpenAPISchema(schema *openapi3.Schema) *OpenAPISchema {
	RegisterFormats()
	return &OpenAPISchema{schema: schema}
}

// ParseOpenAPISchema decodes a JSON schema object.
func ParseOpenAPISchema(data []byte) (*OpenAPISchema, error) {
	schema := openapi3.NewSchema()
	if err := schema.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("validation: decode openapi schema: %w", err)
	}
	return NewOpenAPISchema(schema), nil
}

// Raw returns the wrapped schema object.
func (s *OpenAPISchema) Raw() *openapi3.Schema {
	if s == nil {
		return nil
	}
	return s.schema
}

// Validate checks value. Go values are normalised through JSON first so that
// integers, named types and structs reach the schema as JSON primitives.
func (s *OpenAPISchema) Validate(value any) error {
	if s == nil || s.schema == nil {
		return nil
	}
	normalised, err := normaliseJSON(value)
	if err != nil {
		return Message(err.Error())
	}
	if err := s.schema.VisitJSON(normalised, openapi3.MultiErrors()); err != nil {
		return NewErrors(openAPIIssues(err)...)
	}
	return nil
}

func normaliseJSON(value any) (any, error) {
	switch value.(type) {
	case nil, string, bool, float64:
		return value, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("validation: value is not JSON encodable: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("validation: value is not JSON encodable: %w", err)
	}
	return out, nil
}

func openAPIIssues(err error) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var issues []Issue
		for _, inner := range multi {
			issues = append(issues, openAPIIssues(inner)...)
		}
		return issues
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		issue := Issue{Message: schemaErr.Reason}
		if issue.Message == "" {
			issue.Message = fmt.Sprintf("doesn't match schema %q", schemaErr.SchemaField)
		}
		if len(pointer) > 0 {
			issue.Path = "/" + strings.Join(pointer, "/")
			issue.Field = strings.Join(pointer, ".")
		}
		return []Issue{issue}
	}

	return []Issue{issueFromError(err)}
}
