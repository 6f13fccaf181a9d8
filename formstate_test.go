package formstate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/testsupport"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

func TestDefinitionsFS_LoadsBundledDefinitions(t *testing.T) {
	store, err := LoadDefinitions(DefinitionsFS())
	if err != nil {
		t.Fatalf("load bundled definitions: %v", err)
	}
	if diff := cmp.Diff([]string{"contact", "signup"}, store.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	for _, name := range store.Names() {
		def, _ := store.Definition(name)
		f, err := def.NewForm()
		if err != nil {
			t.Fatalf("%s: new form: %v", name, err)
		}
		f.Close()
	}
}

func TestContactDefinition(t *testing.T) {
	def, err := LoadDefinition(DefinitionsFS(), "contact.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := testsupport.MustNewForm(t, def)

	err = def.Fill(f, map[string]any{
		"person": map[string]any{
			"name":  "<b>Ada</b> Lovelace ",
			"rut":   "123456785",
			"phone": "+56 2 2345 6789",
		},
		"visit": map[string]any{"date": "20240230", "time": "0930"},
		"age":   36,
	})
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	f.Validate(true)
	testsupport.Settle(f)
	if !f.Valid() {
		t.Fatalf("contact must be valid, errors %v", f.Errors())
	}

	got := f.Values()
	want := map[string]any{
		"person": map[string]any{
			"name":  "Ada Lovelace",
			"rut":   "12.345.678-5",
			"phone": "+56 2 2345 6789",
		},
		"visit":  map[string]any{"date": "2024-02-30", "time": "09:30"},
		"topics": []string{},
		"age":    int64(36),
		"notes":  "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_ProgrammaticSchema(t *testing.T) {
	schema := NewSchema().Add("name", field.Def[string]{Default: "Ada"})
	f, err := New(schema, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer f.Close()
	if f.Changed() || f.Touched() || !f.Valid() {
		t.Fatalf("fresh form must be pristine, got %+v", f.State())
	}
}

func TestSignupDefinition_CompanyFollowsPlan(t *testing.T) {
	def, err := LoadDefinition(DefinitionsFS(), "signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := testsupport.MustNewForm(t, def)

	company, _ := f.Field("company")
	if !visibility.Hidden(company) {
		t.Fatalf("company must be hidden on the free plan")
	}
	if err := def.Fill(f, map[string]any{"plan": "team", "company": "  Acme "}); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if visibility.Hidden(company) {
		t.Fatalf("company must show on the team plan")
	}
	if company.Any() != "Acme" {
		t.Fatalf("company must be trimmed, got %q", company.Any())
	}
}
