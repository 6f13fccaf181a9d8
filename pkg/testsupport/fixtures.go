package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formconfig"
)

// MustParseDefinition builds a definition from an inline document.
func MustParseDefinition(t *testing.T, source, doc string) *formconfig.Definition {
	t.Helper()

	def, err := formconfig.Load([]byte(doc), source)
	if err != nil {
		t.Fatalf("load definition %s: %v", source, err)
	}
	return def
}

// MustLoadDefinition reads a definition fixture from disk.
func MustLoadDefinition(t *testing.T, path string) *formconfig.Definition {
	t.Helper()

	def, err := LoadDefinitionFromPath(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinitionFromPath returns a definition without requiring testing.T so
// fixtures can be wired in setup functions.
func LoadDefinitionFromPath(path string) (*formconfig.Definition, error) {
	if path == "" {
		return nil, errors.New("testsupport: definition path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read definition: %w", err)
	}
	def, err := formconfig.Load(data, path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: %w", err)
	}
	return def, nil
}

// MustNewForm builds the form of def and closes it when the test ends.
func MustNewForm(t *testing.T, def *formconfig.Definition, opts ...form.Option) *form.Form {
	t.Helper()

	f, err := def.NewForm(opts...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	t.Cleanup(f.Close)
	return f
}

// Settle drains the form loop so queued results are committed.
func Settle(f *form.Form) int {
	if loop := f.Loop(); loop != nil {
		return loop.Drain()
	}
	return 0
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertGolden compares got with the golden file at path, ignoring
// surrounding whitespace. With UPDATE_GOLDENS set the file is rewritten.
func AssertGolden(t *testing.T, path string, got []byte) {
	t.Helper()
	if WriteMaybeGolden(t, path, got) {
		return
	}
	want := MustReadGolden(t, path)
	if diff := cmp.Diff(string(bytes.TrimSpace(want)), string(bytes.TrimSpace(got))); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
