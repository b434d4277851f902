package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned for malformed expression text.
var ErrSyntax = errors.New("expression syntax error")

// Parse parses a complete expression.
//
// Grammar:
//
//	expr  = term { "+" term }
//	term  = string | ident | "(" expr ")"
//	string = "'" { any but "'" } "'" | Go double-quoted string
//	ident = ( letter | "_" ) { letter | digit | "_" }
//
// Chains are left-associative: a + b + c is (a + b) + c.
// Every identifier parses as a [Variable]; use [Rebind] to mark output
// bindings.
func Parse(s string) (Expr, error) {
	e, rest, err := ParsePrefix(s)
	if err != nil {
		return nil, err
	}
	if rest = strings.TrimSpace(rest); rest != "" {
		return nil, fmt.Errorf("%w: unexpected %q after expression", ErrSyntax, rest)
	}
	return e, nil
}

// ParsePrefix parses the longest expression at the start of s and returns
// the unconsumed remainder.
func ParsePrefix(s string) (Expr, string, error) {
	p := &parser{src: s}
	e, err := p.expr()
	if err != nil {
		return nil, "", err
	}
	return e, p.src[p.pos:], nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.peek() == '+' {
		p.pos++
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = Concat{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) term() (Expr, error) {
	switch c := p.peek(); {
	case c == 0:
		return nil, fmt.Errorf("%w: unexpected end of input", ErrSyntax)
	case c == '(':
		p.pos++
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("%w: missing ')' at offset %d", ErrSyntax, p.pos)
		}
		p.pos++
		return e, nil
	case c == '\'':
		return p.singleQuoted()
	case c == '"':
		return p.doubleQuoted()
	case isIdentStart(c):
		start := p.pos
		for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
			p.pos++
		}
		return Var(p.src[start:p.pos]), nil
	default:
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, c, p.pos)
	}
}

func (p *parser) singleQuoted() (Expr, error) {
	start := p.pos + 1
	end := strings.IndexByte(p.src[start:], '\'')
	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated literal at offset %d", ErrSyntax, p.pos)
	}
	p.pos = start + end + 1
	return Lit(p.src[start : start+end]), nil
}

func (p *parser) doubleQuoted() (Expr, error) {
	start := p.pos
	i := start + 1
	for i < len(p.src) {
		switch p.src[i] {
		case '\\':
			i += 2
			continue
		case '"':
			s, err := strconv.Unquote(p.src[start : i+1])
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
			}
			p.pos = i + 1
			return Lit(s), nil
		}
		i++
	}
	return nil, fmt.Errorf("%w: unterminated literal at offset %d", ErrSyntax, start)
}

// IsIdent reports whether s is a valid identifier of the expression language.
func IsIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}
