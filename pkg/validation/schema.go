package validation

// Schema is the declarative validation capability: it inspects a value and
// returns nil when the value is acceptable, or an error describing why not.
// Implementations must be synchronous.
type Schema interface {
	Validate(value any) error
}

// SchemaFunc adapts a plain function to Schema.
type SchemaFunc func(value any) error

// Validate calls fn.
func (fn SchemaFunc) Validate(value any) error {
	if fn == nil {
		return nil
	}
	return fn(value)
}

// All runs every schema and merges their issues into one payload. Nil schemas
// are skipped.
func All(schemas ...Schema) Schema {
	kept := make([]Schema, 0, len(schemas))
	for _, s := range schemas {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return allSchema(kept)
}

type allSchema []Schema

func (a allSchema) Validate(value any) error {
	var issues []Issue
	for _, s := range a {
		issues = append(issues, IssuesOf(s.Validate(value))...)
	}
	return NewErrors(issues...)
}
