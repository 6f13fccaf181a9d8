package masks

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/rut"
)

// Func transforms a string value. Masks must be pure and idempotent.
type Func func(value string) string

// Field adapts fn to a string field mask.
func Field(fn Func) field.Mask[string] {
	if fn == nil {
		return field.Mask[string]{}
	}
	return field.Mask[string]{Apply: func(value string, _ field.Fields) string {
		return fn(value)
	}}
}

// Chain applies masks left to right.
func Chain(fns ...Func) Func {
	return func(value string) string {
		for _, fn := range fns {
			if fn != nil {
				value = fn(value)
			}
		}
		return value
	}
}

// RUT formats a Chilean id as 12.345.678-K. Only digits and a trailing K are
// kept; the body is capped at nine digits.
func RUT(value string) string {
	var b strings.Builder
	for i, r := range value {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case (r == 'k' || r == 'K') && strings.TrimRight(value[i+1:], " ") == "":
			b.WriteByte('K')
		}
	}
	cleaned := b.String()
	if len(cleaned) > 10 {
		cleaned = cleaned[:10]
	}
	return rut.Format(cleaned)
}

// Phone formats a Chilean number progressively: +56 2 1234 5678 for
// Santiago landlines, +56 9 1234 5678 for mobiles and +56 45 123 4567 for
// other area codes. A leading 56 country code is optional in the input.
func Phone(value string) string {
	digits := onlyDigits(value)
	if digits == "" {
		return ""
	}
	digits = strings.TrimPrefix(digits, "56")
	if len(digits) > 9 {
		digits = digits[:9]
	}

	groups := []int{2, 3, 4}
	if digits != "" && (digits[0] == '2' || digits[0] == '9') {
		groups = []int{1, 4, 4}
	}

	parts := []string{"+56"}
	for _, size := range groups {
		if digits == "" {
			break
		}
		n := min(size, len(digits))
		parts = append(parts, digits[:n])
		digits = digits[n:]
	}
	return strings.Join(parts, " ")
}

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// Sanitize strips every HTML tag.
func Sanitize(value string) string {
	return strictPolicy.Sanitize(value)
}

// SanitizeUGC keeps the markup bluemonday considers safe for user content.
func SanitizeUGC(value string) string {
	return ugcPolicy.Sanitize(value)
}

// Trim removes surrounding whitespace.
func Trim(value string) string { return strings.TrimSpace(value) }

// Upper upper-cases the value.
func Upper(value string) string { return strings.ToUpper(value) }

// Lower lower-cases the value.
func Lower(value string) string { return strings.ToLower(value) }

func onlyDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
