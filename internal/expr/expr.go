// Package expr defines the symbolic value language shared by every stage
// of effect inference.
package expr

import (
	"strconv"
	"strings"
)

// Expr is a symbolic value. It is one of [Literal], [Variable], [Concat]
// or [EffectOutput]; the set is closed.
type Expr interface {
	// String renders the expression for display. Effect outputs render
	// as $name; see [Source] for the parseable form.
	String() string

	isExpr()
}

// Literal is a concrete string.
type Literal struct {
	Value string
}

// Variable is a named value that has not been resolved yet.
//
// Owner is non-empty only for parameter placeholders of an inferred
// function template: it names the function whose parameter this is, so
// that substitution never captures a same-named variable of another scope.
// Owner never appears in the rendered form.
type Variable struct {
	Name  string
	Owner string
}

// Concat is string concatenation, the only operator of the language.
type Concat struct {
	Left  Expr
	Right Expr
}

// EffectOutput refers to the output binding of an effect clause evaluated
// earlier in the same function.
type EffectOutput struct {
	Binding string
}

func (Literal) isExpr()      {}
func (Variable) isExpr()     {}
func (Concat) isExpr()       {}
func (EffectOutput) isExpr() {}

func (l Literal) String() string { return strconv.Quote(l.Value) }

func (v Variable) String() string { return v.Name }

func (c Concat) String() string {
	ops := Operands(c)
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, " + ")
}

func (o EffectOutput) String() string { return "$" + o.Binding }

// Lit returns a literal.
func Lit(s string) Literal { return Literal{Value: s} }

// Var returns an unscoped variable.
func Var(name string) Variable { return Variable{Name: name} }

// Param returns the placeholder for parameter name of function owner.
func Param(owner, name string) Variable { return Variable{Name: name, Owner: owner} }

// Out returns a reference to an effect output binding.
func Out(binding string) EffectOutput { return EffectOutput{Binding: binding} }

// Cat concatenates operands left-associatively.
// Cat() is the empty literal and Cat(e) is e.
func Cat(operands ...Expr) Expr {
	if len(operands) == 0 {
		return Lit("")
	}
	result := operands[0]
	for _, op := range operands[1:] {
		result = Concat{Left: result, Right: op}
	}
	return result
}

// Operands flattens nested concatenations into their leaves, left to right.
func Operands(e Expr) []Expr {
	var ops []Expr
	var walk func(Expr)
	walk = func(e Expr) {
		if c, ok := e.(Concat); ok {
			walk(c.Left)
			walk(c.Right)
			return
		}
		ops = append(ops, e)
	}
	walk(e)
	return ops
}

// Fold merges adjacent literals and drops empty ones.
// A fully literal expression folds into a single [Literal].
func Fold(e Expr) Expr {
	if e == nil {
		return nil
	}

	var folded []Expr
	for _, op := range Operands(e) {
		lit, ok := op.(Literal)
		if !ok {
			folded = append(folded, op)
			continue
		}
		if lit.Value == "" {
			continue
		}
		if n := len(folded); n > 0 {
			if prev, ok := folded[n-1].(Literal); ok {
				folded[n-1] = Lit(prev.Value + lit.Value)
				continue
			}
		}
		folded = append(folded, lit)
	}

	return Cat(folded...)
}

// IsResolved reports whether e is a concrete literal.
func IsResolved(e Expr) bool {
	_, ok := e.(Literal)
	return ok
}

// Equal reports structural equality.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case Literal:
		y, ok := b.(Literal)
		return ok && x == y
	case Variable:
		y, ok := b.(Variable)
		return ok && x == y
	case EffectOutput:
		y, ok := b.(EffectOutput)
		return ok && x == y
	case Concat:
		y, ok := b.(Concat)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case nil:
		return b == nil
	}
	return false
}

// Names returns the distinct variable names referenced by e, in order of
// first appearance.
func Names(e Expr) []string {
	var names []string
	seen := make(map[string]bool)
	for _, op := range Operands(e) {
		if v, ok := op.(Variable); ok && !seen[v.Name] {
			seen[v.Name] = true
			names = append(names, v.Name)
		}
	}
	return names
}

// Outputs returns the distinct effect output bindings referenced by e.
func Outputs(e Expr) []string {
	var bindings []string
	seen := make(map[string]bool)
	for _, op := range Operands(e) {
		if o, ok := op.(EffectOutput); ok && !seen[o.Binding] {
			seen[o.Binding] = true
			bindings = append(bindings, o.Binding)
		}
	}
	return bindings
}

// Substitute replaces every variable for which fn reports true.
// Replacement values are inserted as-is and never visited again.
func Substitute(e Expr, fn func(Variable) (Expr, bool)) Expr {
	switch x := e.(type) {
	case Variable:
		if r, ok := fn(x); ok {
			return r
		}
		return x
	case Concat:
		return Concat{
			Left:  Substitute(x.Left, fn),
			Right: Substitute(x.Right, fn),
		}
	}
	return e
}

// Source renders e in the syntax accepted by [Parse]. Effect outputs
// render as bare names, so Parse followed by [Rebind] restores them.
func Source(e Expr) string {
	ops := Operands(e)
	parts := make([]string, len(ops))
	for i, op := range ops {
		switch x := op.(type) {
		case EffectOutput:
			parts[i] = x.Binding
		default:
			parts[i] = x.String()
		}
	}
	return strings.Join(parts, " + ")
}

// Rebind turns unscoped variables named in outputs into [EffectOutput]
// references. Front ends use it after parsing, where both kinds of name
// share one syntax.
func Rebind(e Expr, outputs map[string]bool) Expr {
	return Substitute(e, func(v Variable) (Expr, bool) {
		if v.Owner == "" && outputs[v.Name] {
			return Out(v.Name), true
		}
		return nil, false
	})
}
