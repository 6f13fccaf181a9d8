package visibility

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Lookup resolves an identifier to a value.
type Lookup func(key string) (any, bool)

// Rule is a compiled expression.
type Rule struct {
	src  string
	root node
	deps []string
}

// Compile parses src. An empty rule is always true.
func Compile(src string) (*Rule, error) {
	src = strings.TrimSpace(src)
	r := &Rule{src: src}
	if src == "" {
		return r, nil
	}
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("visibility: unexpected %q in %q", p.peek().text, src)
	}
	r.root = root
	r.deps = p.idents
	return r, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Rule {
	r, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the source text.
func (r *Rule) String() string { return r.src }

// Deps lists the identifiers the rule reads, in order of first use.
func (r *Rule) Deps() []string { return append([]string(nil), r.deps...) }

// Eval evaluates the rule. Unknown identifiers read as null.
func (r *Rule) Eval(lookup Lookup) bool {
	if r == nil || r.root == nil {
		return true
	}
	return r.root.eval(lookup)
}

type kind int

const (
	kIdent kind = iota
	kString
	kNumber
	kBool
	kNull
	kOp
	kNot
	kAnd
	kOr
	kLParen
	kRParen
)

type tok struct {
	kind kind
	text string
}

func scan(src string) ([]tok, error) {
	var out []tok
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			out = append(out, tok{kLParen, "("})
			i++
		case c == ')':
			out = append(out, tok{kRParen, ")"})
			i++
		case strings.HasPrefix(src[i:], "&&"):
			out = append(out, tok{kAnd, "&&"})
			i += 2
		case strings.HasPrefix(src[i:], "||"):
			out = append(out, tok{kOr, "||"})
			i += 2
		case strings.HasPrefix(src[i:], "=="), strings.HasPrefix(src[i:], "!="),
			strings.HasPrefix(src[i:], "<="), strings.HasPrefix(src[i:], ">="):
			out = append(out, tok{kOp, src[i : i+2]})
			i += 2
		case c == '<' || c == '>':
			out = append(out, tok{kOp, string(c)})
			i++
		case c == '!':
			out = append(out, tok{kNot, "!"})
			i++
		case c == '"' || c == '\'':
			end := closingQuote(src, i)
			if end < 0 {
				return nil, errors.New("visibility: unterminated string literal")
			}
			body := src[i+1 : end]
			if c == '\'' {
				body = strings.ReplaceAll(body, `"`, `\"`)
				body = strings.ReplaceAll(body, `\'`, `'`)
			}
			text, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return nil, fmt.Errorf("visibility: invalid string literal: %w", err)
			}
			out = append(out, tok{kString, text})
			i = end + 1
		case c == '=' || c == '&' || c == '|':
			return nil, fmt.Errorf("visibility: unexpected %q at offset %d", c, i)
		default:
			start := i
			for i < len(src) && !strings.ContainsRune(" \t\n\r()!=<>&|\"'", rune(src[i])) {
				i++
			}
			out = append(out, word(src[start:i]))
		}
	}
	return out, nil
}

func closingQuote(src string, open int) int {
	quote := src[open]
	for i := open + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

func word(text string) tok {
	switch strings.ToLower(text) {
	case "true", "false":
		return tok{kBool, strings.ToLower(text)}
	case "null", "nil":
		return tok{kNull, "null"}
	}
	if strings.ContainsRune("0123456789+-.", rune(text[0])) {
		if _, err := strconv.ParseFloat(text, 64); err == nil {
			return tok{kNumber, text}
		}
	}
	return tok{kIdent, text}
}

type parser struct {
	toks   []tok
	pos    int
	idents []string
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() tok {
	if p.done() {
		return tok{}
	}
	return p.toks[p.pos]
}

func (p *parser) accept(k kind) (tok, bool) {
	if p.done() || p.toks[p.pos].kind != k {
		return tok{}, false
	}
	t := p.toks[p.pos]
	p.pos++
	return t, true
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(kOr); !ok {
			return left, nil
		}
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orNode{left, right}
	}
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(kAnd); !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andNode{left, right}
	}
}

func (p *parser) unary() (node, error) {
	if _, ok := p.accept(kNot); ok {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if _, ok := p.accept(kLParen); ok {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if _, ok := p.accept(kRParen); !ok {
			return nil, errors.New("visibility: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := p.accept(kIdent)
	if !ok {
		if p.done() {
			return nil, errors.New("visibility: unexpected end of rule")
		}
		return nil, fmt.Errorf("visibility: expected field name, got %q", p.peek().text)
	}
	p.use(ident.text)

	op, ok := p.accept(kOp)
	if !ok {
		return setNode{key: ident.text}, nil
	}
	if p.done() {
		return nil, fmt.Errorf("visibility: missing value after %s", op.text)
	}
	lit := p.toks[p.pos]
	p.pos++
	switch lit.kind {
	case kString, kNumber, kBool, kNull:
	case kIdent:
		// bare words compare as strings
		lit.kind = kString
	default:
		return nil, fmt.Errorf("visibility: expected value after %s, got %q", op.text, lit.text)
	}
	if op.text != "==" && op.text != "!=" && lit.kind != kNumber {
		return nil, fmt.Errorf("visibility: %s needs a number, got %q", op.text, lit.text)
	}
	return compareNode{key: ident.text, op: op.text, lit: lit}, nil
}

func (p *parser) use(key string) {
	for _, k := range p.idents {
		if k == key {
			return
		}
	}
	p.idents = append(p.idents, key)
}
