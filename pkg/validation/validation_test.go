package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"
)

func TestNewErrors_DropsEmptyMessages(t *testing.T) {
	if err := NewErrors(Issue{Message: "  "}); err != nil {
		t.Fatalf("expected nil payload for blank issues, got %v", err)
	}
	err := NewErrors(Issue{Field: "name", Message: " required "}, Issue{Message: "too short"})
	if err == nil {
		t.Fatalf("expected payload")
	}
	if got, want := err.Error(), "name: required; too short"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestIssuesOf(t *testing.T) {
	payload := NewErrors(Issue{Field: "a", Message: "bad"})
	if diff := cmp.Diff([]Issue{{Field: "a", Message: "bad"}}, IssuesOf(payload)); diff != "" {
		t.Fatalf("payload issues mismatch (-want +got):\n%s", diff)
	}

	plain := IssuesOf(errors.New("value is invalid at #/properties/title"))
	want := []Issue{{Path: "#/properties/title", Field: "title", Message: "value is invalid"}}
	if diff := cmp.Diff(want, plain); diff != "" {
		t.Fatalf("plain error issues mismatch (-want +got):\n%s", diff)
	}

	prose := IssuesOf(errors.New("must be at least 3 characters"))
	if prose[0].Path != "" || prose[0].Message != "must be at least 3 characters" {
		t.Fatalf("prose should not be parsed as a pointer: %#v", prose[0])
	}
}

func TestAll_MergesIssues(t *testing.T) {
	schema := All(
		SchemaFunc(func(any) error { return Message("first") }),
		nil,
		SchemaFunc(func(any) error { return nil }),
		SchemaFunc(func(any) error { return errors.New("second") }),
	)
	err := schema.Validate("x")
	var payload *Errors
	if !errors.As(err, &payload) {
		t.Fatalf("expected *Errors, got %T", err)
	}
	if diff := cmp.Diff([]string{"first", "second"}, payload.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if err := All().Validate("x"); err != nil {
		t.Fatalf("empty All should pass, got %v", err)
	}
}

func TestOpenAPISchema_String(t *testing.T) {
	schema := NewOpenAPISchema(openapi3.NewStringSchema().WithMinLength(3))
	if err := schema.Validate("abcd"); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	err := schema.Validate("ab")
	if err == nil {
		t.Fatalf("expected min length failure")
	}
	if issues := IssuesOf(err); len(issues) != 1 {
		t.Fatalf("expected one issue, got %#v", issues)
	}
}

func TestOpenAPISchema_NormalisesGoNumbers(t *testing.T) {
	schema := NewOpenAPISchema(openapi3.NewIntegerSchema().WithMin(10))
	if err := schema.Validate(12); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := schema.Validate(int64(5)); err == nil {
		t.Fatalf("expected minimum failure")
	}
}

func TestOpenAPISchema_CustomFormats(t *testing.T) {
	rutSchema := NewOpenAPISchema(openapi3.NewStringSchema().WithFormat(FormatRUT))
	if err := rutSchema.Validate("12.345.678-5"); err != nil {
		t.Fatalf("expected valid rut, got %v", err)
	}
	if err := rutSchema.Validate("12.345.678-9"); err == nil {
		t.Fatalf("expected invalid rut")
	}

	phoneSchema := NewOpenAPISchema(openapi3.NewStringSchema().WithFormat(FormatPhone))
	if err := phoneSchema.Validate("+56 9 1234 5678"); err != nil {
		t.Fatalf("expected valid phone, got %v", err)
	}
	if err := phoneSchema.Validate("555-1234"); err == nil {
		t.Fatalf("expected invalid phone")
	}
}

func TestParseOpenAPISchema_ObjectRequired(t *testing.T) {
	schema, err := ParseOpenAPISchema([]byte(`{
  "type": "object",
  "required": ["name", "age"],
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "integer"}
  }
}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	verr := schema.Validate(map[string]any{"name": "Ada"})
	if verr == nil {
		t.Fatalf("expected missing property failure")
	}
	if !strings.Contains(verr.Error(), "age") {
		t.Fatalf("expected issue mentioning age, got %v", verr)
	}
	if err := schema.Validate(map[string]any{"name": "Ada", "age": 36}); err != nil {
		t.Fatalf("expected valid object, got %v", err)
	}
}

func TestCUESchema(t *testing.T) {
	schema, err := CompileCUE(`#Name: string & =~"^[A-Z]"`, "#Name")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := schema.Validate("Alice"); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := schema.Validate("alice"); err == nil {
		t.Fatalf("expected pattern failure")
	}
	if err := schema.Validate(3); err == nil {
		t.Fatalf("expected type failure")
	}
}

func TestCompileCUE_Errors(t *testing.T) {
	if _, err := CompileCUE(`#Name: string &`, ""); err == nil {
		t.Fatalf("expected syntax error")
	}
	if _, err := CompileCUE(`#Name: string`, "#Missing"); err == nil {
		t.Fatalf("expected missing definition error")
	}
}

func TestIsPhone(t *testing.T) {
	if !IsPhone("+56 9 1234 5678") || !IsPhone("56912345678") {
		t.Fatalf("expected phones to be valid")
	}
	if IsPhone("+1 555 1234") {
		t.Fatalf("expected foreign phone to be invalid")
	}
}
