// Package validation defines the declarative schema capability consumed by
// form fields, the issue payload fields carry when validation fails, and
// schema adapters for OpenAPI 3 schema objects (kin-openapi) and CUE
// definitions. A schema reports problems by returning an error; the field
// stores that error as its validation payload and never propagates it.
package validation
