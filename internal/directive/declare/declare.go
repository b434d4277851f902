// Package declare parses //autobox:declare directives.
package declare

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mpyw/autobox/internal/expr"
	"github.com/mpyw/autobox/internal/funcspec"
)

const prefix = "autobox:declare"

// Arg maps a Go parameter to the binding name used inside clauses.
type Arg struct {
	Param string
	Alias string // equal to Param when no "as" is given
}

// Declaration is a parsed declare directive.
type Declaration struct {
	Args    []Arg
	Effects []funcspec.Clause
	Updates map[string]expr.Expr
	Returns expr.Expr
}

// IsDirective reports whether comment text is a declare directive.
func IsDirective(text string) bool {
	_, ok := body(text)
	return ok
}

func body(text string) (string, bool) {
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, prefix) {
		return "", false
	}
	rest := text[len(prefix):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// Parse parses the comment text of a declare directive:
//
//	//autobox:declare args=(a as A, b as B) side_effects=(reads_file(A + '/' + B)) returns=(A + '/' + B)
//
// Every section is optional; each may appear once.
func Parse(text string) (*Declaration, error) {
	rest, ok := body(text)
	if !ok {
		return nil, fmt.Errorf("%w: not a declare directive", expr.ErrSyntax)
	}

	d := &Declaration{}
	seen := make(map[string]bool)
	for rest != "" {
		key, content, r, err := section(rest)
		if err != nil {
			return nil, err
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate section %q", expr.ErrSyntax, key)
		}
		seen[key] = true

		switch key {
		case "args":
			d.Args, err = parseArgs(content)
		case "side_effects":
			d.Effects, err = funcspec.ParseClauses(content)
		case "updates":
			d.Updates, err = parseUpdates(content)
		case "returns":
			if strings.TrimSpace(content) != "" {
				d.Returns, err = expr.Parse(content)
			}
		default:
			err = fmt.Errorf("%w: unknown section %q", expr.ErrSyntax, key)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}

		rest = strings.TrimSpace(r)
	}

	return d, nil
}

// section splits "key=(content) rest" honoring nested parentheses and
// quoted strings.
func section(s string) (key, content, rest string, err error) {
	eq := strings.Index(s, "=(")
	if eq < 0 {
		return "", "", "", fmt.Errorf("%w: expected key=(...) at %q", expr.ErrSyntax, s)
	}
	key = strings.TrimSpace(s[:eq])
	if !expr.IsIdent(key) {
		return "", "", "", fmt.Errorf("%w: invalid section name %q", expr.ErrSyntax, key)
	}

	depth := 0
	var quote byte
	for i := eq + 1; i < len(s); i++ {
		c := s[i]
		switch {
		case quote == '"' && c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return key, s[eq+2 : i], s[i+1:], nil
			}
		}
	}
	return "", "", "", fmt.Errorf("%w: section %q is not closed", expr.ErrSyntax, key)
}

func parseArgs(s string) ([]Arg, error) {
	var args []Arg
	for _, part := range strings.Split(s, ",") {
		fields := strings.Fields(part)
		switch {
		case len(fields) == 0 && strings.TrimSpace(s) == "":
			continue
		case len(fields) == 1 && expr.IsIdent(fields[0]):
			args = append(args, Arg{Param: fields[0], Alias: fields[0]})
		case len(fields) == 3 && fields[1] == "as" && expr.IsIdent(fields[0]) && expr.IsIdent(fields[2]):
			args = append(args, Arg{Param: fields[0], Alias: fields[2]})
		default:
			return nil, fmt.Errorf("%w: invalid argument %q", expr.ErrSyntax, strings.TrimSpace(part))
		}
	}
	return args, nil
}

func parseUpdates(s string) (map[string]expr.Expr, error) {
	updates := make(map[string]expr.Expr)
	rest := strings.TrimSpace(s)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			return nil, fmt.Errorf("%w: expected name = expr at %q", expr.ErrSyntax, rest)
		}
		name := strings.TrimSpace(rest[:eq])
		if !expr.IsIdent(name) {
			return nil, fmt.Errorf("%w: invalid update target %q", expr.ErrSyntax, name)
		}
		e, r, err := expr.ParsePrefix(rest[eq+1:])
		if err != nil {
			return nil, err
		}
		updates[name] = e

		rest = strings.TrimSpace(r)
		if rest == "" {
			break
		}
		if rest[0] != ',' {
			return nil, fmt.Errorf("%w: expected ',' between updates, got %q", expr.ErrSyntax, rest)
		}
		rest = strings.TrimSpace(rest[1:])
	}
	return updates, nil
}

// Spec builds the declared spec of a function whose Go parameters are
// params. Binding names follow the Go parameter order; a parameter not
// listed in args keeps its Go name. Without Go parameters (external
// declarations) the args order is used as is.
func (d *Declaration) Spec(name string, params []string) (*funcspec.Spec, error) {
	spec := &funcspec.Spec{
		Name:    name,
		Kind:    funcspec.KindDeclared,
		Effects: slices.Clone(d.Effects),
		Returns: d.Returns,
	}

	if params == nil {
		for _, a := range d.Args {
			spec.Params = append(spec.Params, a.Alias)
		}
	} else {
		aliases := make(map[string]string, len(d.Args))
		for _, a := range d.Args {
			if !slices.Contains(params, a.Param) {
				return nil, fmt.Errorf("%w: %s: no parameter named %q", funcspec.ErrInvalidSpec, name, a.Param)
			}
			aliases[a.Param] = a.Alias
		}
		for _, p := range params {
			if alias, ok := aliases[p]; ok {
				p = alias
			}
			spec.Params = append(spec.Params, p)
		}
	}

	if len(d.Updates) > 0 {
		spec.Updates = make(map[string]expr.Expr, len(d.Updates))
		for k, v := range d.Updates {
			spec.Updates[k] = v
		}
	}

	funcspec.BindOutputs(spec)
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}
