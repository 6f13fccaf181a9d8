// Package formconfig loads form definitions from JSON or YAML documents and
// turns them into a form.Schema plus form.Mutators. Masks are resolved by name
// through a masks.Registry and validation combines named rules with inline
// OpenAPI or CUE schemas.
//
// Example document:
//
//	title: Sign up
//	fields:
//	  - key: email
//	    label: Email
//	    mask: [trim, lower]
//	    validate:
//	      rules: [required]
//	      openapi: {type: string, format: email}
//	      onChange: true
//	      debounce: 300ms
//	  - key: age
//	    type: integer
//	    default: 18
//	    validate:
//	      cue: "#Age: int & >=18"
//	      cueDefinition: "#Age"
package formconfig
