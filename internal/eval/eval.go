// Package eval reduces symbolic expressions against a binding environment.
package eval

import (
	"errors"
	"fmt"

	"github.com/mpyw/autobox/internal/expr"
)

// ErrDanglingOutput is returned when an expression refers to an effect
// output that has not been bound yet in the current walk.
var ErrDanglingOutput = errors.New("dangling effect output reference")

// Scope is what the evaluator reads names from. *binding.Env implements it.
type Scope interface {
	Lookup(name string) (expr.Expr, bool)
	LookupOutput(name string) (expr.Expr, bool)
}

// Value is the result of an evaluation: either a single literal or a
// residual expression with adjacent literals folded.
type Value struct {
	Expr expr.Expr
}

// Resolved returns the concrete string if the value is fully resolved.
func (v Value) Resolved() (string, bool) {
	if lit, ok := v.Expr.(expr.Literal); ok {
		return lit.Value, true
	}
	return "", false
}

// String renders the value for display.
func (v Value) String() string {
	if v.Expr == nil {
		return ""
	}
	return v.Expr.String()
}

// Evaluate reduces e in scope.
//
// Unbound variables are not an error: they stay symbolic and the result is
// partial. Bound values are taken as final and are not evaluated again.
// Parameter placeholders (variables with an owner) are left untouched.
func Evaluate(e expr.Expr, scope Scope) (Value, error) {
	r, err := evaluate(e, scope)
	if err != nil {
		return Value{}, err
	}
	return Value{Expr: expr.Fold(r)}, nil
}

func evaluate(e expr.Expr, scope Scope) (expr.Expr, error) {
	switch x := e.(type) {
	case expr.Literal:
		return x, nil

	case expr.Variable:
		if x.Owner != "" {
			return x, nil
		}
		if v, ok := scope.Lookup(x.Name); ok {
			return v, nil
		}
		return x, nil

	case expr.Concat:
		left, err := evaluate(x.Left, scope)
		if err != nil {
			return nil, err
		}
		right, err := evaluate(x.Right, scope)
		if err != nil {
			return nil, err
		}
		return expr.Concat{Left: left, Right: right}, nil

	case expr.EffectOutput:
		if v, ok := scope.LookupOutput(x.Binding); ok {
			return v, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrDanglingOutput, x.Binding)
	}

	return nil, fmt.Errorf("unexpected expression %T", e)
}
