package funcspec

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/mpyw/autobox/internal/expr"
)

// ErrInvalidSpec wraps every problem reported by [Spec.Validate].
var ErrInvalidSpec = errors.New("invalid effect specification")

// EvalLabel is the pseudo-effect that only binds its output:
// eval(A + '/') as U makes U available to later clauses and emits nothing.
const EvalLabel = "eval"

// Kind tells the engine where a function's effects come from.
type Kind int

const (
	// KindDeclared means the effects are an unchecked assertion.
	KindDeclared Kind = iota
	// KindInferred means the effects are derived from the body on first use.
	KindInferred
)

func (k Kind) String() string {
	switch k {
	case KindDeclared:
		return "declared"
	case KindInferred:
		return "inferred"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Clause is one side effect performed by a declared function.
type Clause struct {
	Label  string
	Args   []expr.Expr
	Output string // empty if the output is not bound
}

// IsEval reports whether c is an eval pseudo-clause.
func (c Clause) IsEval() bool {
	return c.Label == EvalLabel
}

// String renders the clause in declaration syntax.
func (c Clause) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = expr.Source(a)
	}
	s := c.Label + "(" + strings.Join(args, ", ") + ")"
	if c.Output != "" {
		s += " as " + c.Output
	}
	return s
}

// Spec is the effect specification of one function.
type Spec struct {
	// Name is the flat registry key (see [Name.Key]).
	Name string
	Kind Kind

	// Params are the binding names usable inside the expressions below,
	// in positional order.
	Params []string

	// Effects, Updates and Returns are only meaningful for KindDeclared.
	Effects []Clause
	Updates map[string]expr.Expr // param -> value after the call
	Returns expr.Expr            // nil if nothing useful is returned

	// Body is the normalized statement list of a KindInferred function.
	Body []Stmt

	// Pos is the declaration position, if known.
	Pos token.Pos
}

// ParamIndex returns the position of param name, or -1.
func (s *Spec) ParamIndex(name string) int {
	for i, p := range s.Params {
		if p == name {
			return i
		}
	}
	return -1
}

// BindOutputs turns references to output bindings, parsed as plain
// variables, into effect output references. Every output of the function
// is considered, so a reference to a later clause survives as a dangling
// reference that [Spec.Validate] and the evaluator both reject.
func BindOutputs(s *Spec) {
	outputs := make(map[string]bool)
	for _, c := range s.Effects {
		if c.Output != "" {
			outputs[c.Output] = true
		}
	}
	if len(outputs) == 0 {
		return
	}

	for i := range s.Effects {
		args := make([]expr.Expr, len(s.Effects[i].Args))
		for j, a := range s.Effects[i].Args {
			args[j] = expr.Rebind(a, outputs)
		}
		s.Effects[i].Args = args
	}
	for param, e := range s.Updates {
		s.Updates[param] = expr.Rebind(e, outputs)
	}
	if s.Returns != nil {
		s.Returns = expr.Rebind(s.Returns, outputs)
	}
}

// Validate checks that every name referenced by effects, updates and
// returns is a parameter or an output bound by an earlier clause.
// All problems are joined; each wraps [ErrInvalidSpec].
func (s *Spec) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidSpec, s.Name, fmt.Sprintf(format, args...)))
	}

	params := make(map[string]bool, len(s.Params))
	for _, p := range s.Params {
		if params[p] {
			fail("duplicate parameter %q", p)
		}
		params[p] = true
	}

	if s.Kind == KindInferred {
		if len(s.Effects) > 0 || len(s.Updates) > 0 || s.Returns != nil {
			fail("inferred function carries declared effects")
		}
		return errors.Join(errs...)
	}

	bound := make(map[string]bool)
	check := func(where string, e expr.Expr) {
		for _, name := range expr.Names(e) {
			if !params[name] {
				fail("%s refers to unknown name %q", where, name)
			}
		}
		for _, out := range expr.Outputs(e) {
			if !bound[out] {
				fail("%s refers to output %q before it is bound", where, out)
			}
		}
	}

	for _, c := range s.Effects {
		if c.Label == "" {
			fail("effect without label")
		}
		for _, a := range c.Args {
			check(c.Label, a)
		}
		if c.IsEval() && (len(c.Args) != 1 || c.Output == "") {
			fail("eval takes exactly one argument and must bind an output")
		}
		if c.Output == "" {
			continue
		}
		if params[c.Output] || bound[c.Output] {
			fail("output %q shadows an existing name", c.Output)
		}
		bound[c.Output] = true
	}

	for param, e := range s.Updates {
		if !params[param] {
			fail("update of unknown parameter %q", param)
		}
		check("update of "+param, e)
	}

	if s.Returns != nil {
		check("returns", s.Returns)
	}

	return errors.Join(errs...)
}
