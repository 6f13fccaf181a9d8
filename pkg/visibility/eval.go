package visibility

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type node interface {
	eval(lookup Lookup) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(l Lookup) bool { return n.left.eval(l) || n.right.eval(l) }

type andNode struct{ left, right node }

func (n andNode) eval(l Lookup) bool { return n.left.eval(l) && n.right.eval(l) }

type notNode struct{ inner node }

func (n notNode) eval(l Lookup) bool { return !n.inner.eval(l) }

type setNode struct{ key string }

func (n setNode) eval(l Lookup) bool { return isSet(resolve(l, n.key)) }

type compareNode struct {
	key string
	op  string
	lit tok
}

func (n compareNode) eval(l Lookup) bool {
	value := resolve(l, n.key)
	var eq bool
	switch n.lit.kind {
	case kNull:
		eq = value == nil
	case kBool:
		eq = asBool(value) == (n.lit.text == "true")
	case kString:
		eq = asString(value) == n.lit.text
	case kNumber:
		want, _ := strconv.ParseFloat(n.lit.text, 64)
		got, ok := asNumber(value)
		switch n.op {
		case "<":
			return ok && got < want
		case "<=":
			return ok && got <= want
		case ">":
			return ok && got > want
		case ">=":
			return ok && got >= want
		}
		eq = ok && got == want
	}
	if n.op == "!=" {
		return !eq
	}
	return eq
}

func resolve(l Lookup, key string) any {
	if l == nil {
		return nil
	}
	v, ok := l(key)
	if !ok {
		return nil
	}
	return v
}

func isSet(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	}
	if n, ok := asNumber(value); ok {
		return n != 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

func asBool(value any) bool {
	if s, ok := value.(string); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b
		}
	}
	return isSet(value)
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func asNumber(value any) (float64, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		return f, err == nil
	}
	return 0, false
}
