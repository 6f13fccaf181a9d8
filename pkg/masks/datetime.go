package masks

import (
	"fmt"
	"strconv"
	"strings"
)

type block struct {
	width    int
	from, to int
}

// take consumes the digits of one block. Two-digit blocks whose first digit
// cannot start a value in range are zero padded; complete blocks are clamped.
func (b block) take(digits string) (string, string) {
	if b.width == 2 && digits != "" && int(digits[0]-'0')*10 > b.to {
		return b.clamp("0" + digits[:1]), digits[1:]
	}
	n := min(b.width, len(digits))
	part := digits[:n]
	if n == b.width {
		part = b.clamp(part)
	}
	return part, digits[n:]
}

func (b block) clamp(part string) string {
	v, err := strconv.Atoi(part)
	if err != nil {
		return part
	}
	v = max(b.from, min(b.to, v))
	return fmt.Sprintf("%0*d", b.width, v)
}

type layout struct {
	blocks []block
	seps   []string
}

func (l layout) apply(value string) string {
	digits := onlyDigits(value)
	var out strings.Builder
	for i, blk := range l.blocks {
		if digits == "" {
			break
		}
		if i > 0 {
			out.WriteString(l.seps[i-1])
		}
		var part string
		part, digits = blk.take(digits)
		out.WriteString(part)
	}
	return out.String()
}

var (
	year   = block{width: 4, from: 1000, to: 2999}
	month  = block{width: 2, from: 1, to: 12}
	day    = block{width: 2, from: 1, to: 31}
	hour   = block{width: 2, from: 0, to: 23}
	minute = block{width: 2, from: 0, to: 59}

	dateLayout     = layout{blocks: []block{year, month, day}, seps: []string{"-", "-"}}
	timeLayout     = layout{blocks: []block{hour, minute}, seps: []string{":"}}
	dateTimeLayout = layout{blocks: []block{year, month, day, hour, minute}, seps: []string{"-", "-", " ", ":"}}
)

// Date formats digits as YYYY-MM-DD, clamping each part into range.
func Date(value string) string { return dateLayout.apply(value) }

// Time formats digits as HH:MM.
func Time(value string) string { return timeLayout.apply(value) }

// DateTime formats digits as YYYY-MM-DD HH:MM.
func DateTime(value string) string { return dateTimeLayout.apply(value) }
