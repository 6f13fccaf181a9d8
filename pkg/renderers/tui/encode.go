package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// Encode serializes the collected values in the session's output format.
func (s *Session) Encode(r *Result) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("tui: nothing to encode")
	}
	switch s.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(r.Values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(r.Values)), nil
	default:
		return json.Marshal(r.Values)
	}
}

// WriteState prints one row per field with its flags and issues.
func WriteState(w io.Writer, r *Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Value", "Touched", "Changed", "Valid", "Errors"})
	for _, fs := range r.Fields {
		t.AppendRow(table.Row{
			fs.Key,
			displayValue(fs.Value),
			yesNo(fs.Touched),
			yesNo(fs.Changed),
			yesNo(fs.Valid),
			strings.Join(issueMessages(fs.Errors), "; "),
		})
	}
	t.AppendFooter(table.Row{"", "", yesNo(r.State.Touched), yesNo(r.State.Changed), yesNo(r.State.Valid), ""})
	t.Render()
}

func issueMessages(err error) []string {
	var out []string
	for _, issue := range validation.IssuesOf(err) {
		if issue.Field != "" {
			out = append(out, issue.Field+": "+issue.Message)
			continue
		}
		out = append(out, issue.Message)
	}
	return out
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flatten(join(prefix, key), val, out)
		}
	case []string:
		for _, val := range v {
			out.Add(prefix+"[]", val)
		}
	case []any:
		for _, val := range v {
			out.Add(prefix+"[]", fmt.Sprint(val))
		}
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func prettyPrint(values map[string]any) string {
	rows := map[string]string{}
	collect("", values, rows)
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Key", "Value"})
	for _, k := range keys {
		t.AppendRow(table.Row{k, rows[k]})
	}
	return t.Render() + "\n"
}

func collect(prefix string, value any, out map[string]string) {
	if m, ok := value.(map[string]any); ok {
		for key, val := range m {
			collect(join(prefix, key), val, out)
		}
		return
	}
	out[prefix] = displayValue(value)
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
