package funcspec

import (
	"fmt"
	"strings"

	"github.com/mpyw/autobox/internal/expr"
)

// ParseClause parses a single clause: label(arg, ...) [as Output].
func ParseClause(s string) (Clause, error) {
	c, rest, err := ParseClausePrefix(s)
	if err != nil {
		return Clause{}, err
	}
	if rest = strings.TrimSpace(rest); rest != "" {
		return Clause{}, fmt.Errorf("%w: unexpected %q after clause", expr.ErrSyntax, rest)
	}
	return c, nil
}

// ParseClauses parses a comma-separated list of clauses.
func ParseClauses(s string) ([]Clause, error) {
	var clauses []Clause
	rest := strings.TrimSpace(s)
	for rest != "" {
		c, r, err := ParseClausePrefix(rest)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)

		rest = strings.TrimSpace(r)
		if rest == "" {
			break
		}
		if rest[0] != ',' {
			return nil, fmt.Errorf("%w: expected ',' between clauses, got %q", expr.ErrSyntax, rest)
		}
		rest = strings.TrimSpace(rest[1:])
	}
	return clauses, nil
}

// ParseClausePrefix parses one clause at the start of s and returns the
// unconsumed remainder.
func ParseClausePrefix(s string) (Clause, string, error) {
	s = strings.TrimSpace(s)

	open := strings.IndexByte(s, '(')
	if open < 0 {
		return Clause{}, "", fmt.Errorf("%w: clause %q has no argument list", expr.ErrSyntax, s)
	}
	label := strings.TrimSpace(s[:open])
	if !expr.IsIdent(label) {
		return Clause{}, "", fmt.Errorf("%w: invalid effect label %q", expr.ErrSyntax, label)
	}

	c := Clause{Label: label}
	rest := strings.TrimSpace(s[open+1:])
	if strings.HasPrefix(rest, ")") {
		rest = rest[1:]
	} else {
		for {
			arg, r, err := expr.ParsePrefix(rest)
			if err != nil {
				return Clause{}, "", fmt.Errorf("effect %s: %w", label, err)
			}
			c.Args = append(c.Args, arg)

			r = strings.TrimSpace(r)
			if strings.HasPrefix(r, ",") {
				rest = r[1:]
				continue
			}
			if !strings.HasPrefix(r, ")") {
				return Clause{}, "", fmt.Errorf("%w: effect %s: missing ')'", expr.ErrSyntax, label)
			}
			rest = r[1:]
			break
		}
	}

	output, rest := parseAs(rest)
	c.Output = output

	return c, rest, nil
}

// parseAs consumes an optional "as Ident" suffix.
func parseAs(s string) (string, string) {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "as") || len(t) < 3 || (t[2] != ' ' && t[2] != '\t') {
		return "", s
	}
	t = strings.TrimSpace(t[2:])
	end := 0
	for end < len(t) && expr.IsIdent(t[:end+1]) {
		end++
	}
	if end == 0 {
		return "", s
	}
	return t[:end], t[end:]
}
