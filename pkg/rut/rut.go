// Package rut implements the Chilean national id (RUT/RUN) checksum.
package rut

import "strings"

// CheckDigit computes the verifier for the numeric body of an id. It returns
// "" when body is empty or holds non-digit characters.
func CheckDigit(body string) string {
	if body == "" {
		return ""
	}
	sum, mul := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return ""
		}
		sum += int(c-'0') * mul
		mul++
		if mul > 7 {
			mul = 2
		}
	}
	switch rem := sum % 11; rem {
	case 1:
		return "K"
	case 0:
		return "0"
	default:
		return string(rune('0' + 11 - rem))
	}
}

// Clean strips dots and hyphens.
func Clean(id string) string {
	return strings.NewReplacer(".", "", "-", "").Replace(strings.TrimSpace(id))
}

// IsValid reports whether id, with or without separators, carries a correct
// check digit.
func IsValid(id string) bool {
	id = Clean(id)
	if len(id) < 7 {
		return false
	}
	dv := strings.ToUpper(id[len(id)-1:])
	want := CheckDigit(id[:len(id)-1])
	return want != "" && dv == want
}

// Format renders a cleaned id as 12.345.678-K. Input that is too short to
// split is returned cleaned.
func Format(id string) string {
	id = strings.ToUpper(Clean(id))
	if len(id) < 2 {
		return id
	}
	body, dv := id[:len(id)-1], id[len(id)-1:]

	var b strings.Builder
	lead := len(body) % 3
	if lead > 0 {
		b.WriteString(body[:lead])
	}
	for i := lead; i < len(body); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(body[i : i+3])
	}
	b.WriteByte('-')
	b.WriteString(dv)
	return b.String()
}
