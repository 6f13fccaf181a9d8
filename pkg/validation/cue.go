package validation

import (
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// CUESchema validates values by unifying them with a CUE constraint and
// requiring the result to be concrete.
type CUESchema struct {
	mu    sync.Mutex
	ctx   *cue.Context
	value cue.Value
}

// CompileCUE compiles src. When definition is not empty (for example
// "#Email") the schema is the value at that path instead of the root.
func CompileCUE(src, definition string) (*CUESchema, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(src, cue.Filename("schema.cue"))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("validation: compile cue schema: %w", err)
	}
	if definition = strings.TrimSpace(definition); definition != "" {
		value = value.LookupPath(cue.ParsePath(definition))
		if err := value.Err(); err != nil {
			return nil, fmt.Errorf("validation: cue definition %s: %w", definition, err)
		}
	}
	return &CUESchema{ctx: ctx, value: value}, nil
}

// Validate unifies value with the schema. CUE contexts are not safe for
// concurrent use, so calls are serialised.
func (s *CUESchema) Validate(value any) error {
	if s == nil || s.ctx == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded := s.ctx.Encode(value)
	if err := encoded.Err(); err != nil {
		return NewErrors(cueIssues(err)...)
	}
	if err := s.value.Unify(encoded).Validate(cue.Concrete(true)); err != nil {
		return NewErrors(cueIssues(err)...)
	}
	return nil
}

func cueIssues(err error) []Issue {
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return []Issue{issueFromError(err)}
	}
	issues := make([]Issue, 0, len(list))
	for _, e := range list {
		path := formatCUEPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimPrefix(msg, path)
			msg = strings.TrimPrefix(msg, ":")
		}
		issues = append(issues, Issue{Field: path, Message: strings.TrimSpace(msg)})
	}
	return issues
}

func formatCUEPath(path []string) string {
	if len(path) == 0 {
		return ""
	}
	var b strings.Builder
	for i, part := range path {
		if isNumeric(part) && i > 0 {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
