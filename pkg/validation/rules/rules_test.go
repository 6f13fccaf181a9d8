package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/validation"
)

func TestRules(t *testing.T) {
	type profile struct {
		Name string
		age  int
	}

	cases := []struct {
		name  string
		rule  Rule
		value any
		pass  bool
	}{
		{name: "required text", rule: Required(), value: "x", pass: true},
		{name: "required blank", rule: Required(), value: "  "},
		{name: "required nil", rule: Required(), value: nil},
		{name: "required empty list", rule: Required(), value: []string{}},
		{name: "required zero number", rule: Required(), value: 0, pass: true},
		{name: "equals match", rule: Equals("secret"), value: "secret", pass: true},
		{name: "equals mismatch", rule: Equals("secret"), value: "other"},
		{name: "equals non string", rule: Equals("1"), value: 1},
		{name: "not equals", rule: NotEquals("admin"), value: "guest", pass: true},
		{name: "not equals same", rule: NotEquals("admin"), value: "admin"},
		{name: "phone empty", rule: Phone(), value: "", pass: true},
		{name: "phone mobile", rule: Phone(), value: "+56 9 1234 5678", pass: true},
		{name: "phone short", rule: Phone(), value: "+56 9 1234"},
		{name: "rut valid", rule: RUT(), value: "12.345.678-5", pass: true},
		{name: "rut wrong digit", rule: RUT(), value: "12.345.678-4"},
		{name: "rut nil", rule: RUT(), value: nil, pass: true},
		{name: "has map key", rule: Has("id"), value: map[string]any{"id": 1}, pass: true},
		{name: "has missing key", rule: Has("id"), value: map[string]any{"name": "x"}},
		{name: "has struct field", rule: Has("Name"), value: profile{}, pass: true},
		{name: "has unexported field", rule: Has("age"), value: &profile{}},
		{name: "empty slice", rule: Empty(), value: []string{}, pass: true},
		{name: "empty nil slice", rule: Empty(), value: []string(nil)},
		{name: "empty non empty", rule: Empty(), value: []int{1}},
		{name: "includes one of", rule: Includes("b", "z"), value: []string{"a", "b"}, pass: true},
		{name: "includes none", rule: Includes("z"), value: []string{"a", "b"}},
		{name: "includes not a list", rule: Includes("a"), value: "abc"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rule.Validate(tc.value)
			if tc.pass && err != nil {
				t.Fatalf("expected pass, got %v", err)
			}
			if !tc.pass && err == nil {
				t.Fatalf("expected failure for %#v", tc.value)
			}
		})
	}
}

func TestRule_WithMessage(t *testing.T) {
	err := Equals("x").WithMessage("passwords must match").Validate("y")
	if diff := cmp.Diff([]validation.Issue{{Message: "passwords must match"}}, validation.IssuesOf(err)); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	if got := Equals("x").WithMessage("").Validate("y"); got == nil || got.Error() == "" {
		t.Fatalf("expected default message, got %v", got)
	}
}

func TestAll_CollectsEveryFailure(t *testing.T) {
	schema := All(NotEquals("admin"), Phone(), RUT())
	err := schema.Validate("admin")
	got := len(validation.IssuesOf(err))
	if got != 3 {
		t.Fatalf("expected 3 issues, got %d (%v)", got, err)
	}
}
