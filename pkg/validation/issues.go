package validation

import (
	"errors"
	"strings"
)

// Issue is one validation problem with optional location metadata.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Errors is the payload attached to a field when its value fails validation.
type Errors struct {
	Issues []Issue `json:"issues"`
}

// NewErrors builds a payload from issues. It returns nil when no issue carries
// a message so callers can return the result directly from a Schema.
func NewErrors(issues ...Issue) error {
	kept := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		issue.Message = strings.TrimSpace(issue.Message)
		if issue.Message == "" {
			continue
		}
		kept = append(kept, issue)
	}
	if len(kept) == 0 {
		return nil
	}
	return &Errors{Issues: kept}
}

// Message returns a single-issue payload.
func Message(msg string) error {
	return NewErrors(Issue{Message: msg})
}

// Error joins issue messages, prefixing each with its field path when known.
func (e *Errors) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "validation: no issues"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Field != "" {
			parts = append(parts, issue.Field+": "+issue.Message)
			continue
		}
		parts = append(parts, issue.Message)
	}
	return strings.Join(parts, "; ")
}

// Empty reports whether the payload holds no issues. Fields treat an empty
// payload the same as a nil error.
func (e *Errors) Empty() bool {
	return e == nil || len(e.Issues) == 0
}

// Messages returns the issue messages in order.
func (e *Errors) Messages() []string {
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		out = append(out, issue.Message)
	}
	return out
}

// IssuesOf flattens err into issues. Payloads produced by this package keep
// their structure; any other error becomes a single issue.
func IssuesOf(err error) []Issue {
	if err == nil {
		return nil
	}
	var payload *Errors
	if errors.As(err, &payload) && payload != nil {
		return append([]Issue(nil), payload.Issues...)
	}
	return []Issue{issueFromError(err)}
}

func issueFromError(err error) Issue {
	if err == nil {
		return Issue{Message: "unknown error"}
	}

	msg := strings.TrimSpace(err.Error())
	path := extractJSONPointer(msg)
	if path != "" {
		msg = strings.Replace(msg, " at "+path, "", 1)
	}
	msg = strings.TrimPrefix(msg, "validation: ")
	msg = strings.TrimSpace(msg)

	return Issue{
		Path:    path,
		Field:   fieldPathFromPointer(path),
		Message: msg,
	}
}

func extractJSONPointer(message string) string {
	if message == "" {
		return ""
	}
	if idx := strings.LastIndex(message, " at "); idx >= 0 {
		candidate := strings.TrimSpace(message[idx+4:])
		if strings.HasPrefix(candidate, "/") || strings.HasPrefix(candidate, "#/") {
			return trimPointer(candidate)
		}
	}
	if idx := strings.LastIndex(message, "#/"); idx >= 0 {
		candidate := strings.TrimSpace(message[idx:])
		return trimPointer(candidate)
	}
	return ""
}

func trimPointer(pointer string) string {
	if pointer == "" {
		return ""
	}
	trimmed := strings.TrimRight(pointer, ".)];,")
	return strings.TrimSpace(trimmed)
}

// fieldPathFromPointer turns a JSON pointer into a dotted field path.
// Array indexes are kept so issues on list members stay addressable.
func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	if trimmed == "" {
		return ""
	}
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for idx := 0; idx < len(parts); idx++ {
		segment := unescapePointer(parts[idx])
		switch segment {
		case "properties":
			if idx+1 < len(parts) {
				out = append(out, unescapePointer(parts[idx+1]))
				idx++
			}
		case "oneOf", "anyOf", "allOf":
			if idx+1 < len(parts) && isNumeric(parts[idx+1]) {
				idx++
			}
		case "":
			continue
		default:
			out = append(out, segment)
		}
	}
	return strings.Join(out, ".")
}

func unescapePointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
