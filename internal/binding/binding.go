// Package binding holds the per-walk environment mapping local names to
// symbolic values.
package binding

import "github.com/mpyw/autobox/internal/expr"

// Env maps local variable names and effect output bindings to values.
//
// An Env is created for one walk of one function body and discarded when
// the walk ends. It is not safe for concurrent use.
type Env struct {
	vars    map[string]expr.Expr
	order   []string
	outputs map[string]expr.Expr
}

// New creates an empty environment.
func New() *Env {
	return &Env{
		vars:    make(map[string]expr.Expr),
		outputs: make(map[string]expr.Expr),
	}
}

// Bind sets name to v, replacing any earlier value.
func (e *Env) Bind(name string, v expr.Expr) {
	if _, ok := e.vars[name]; !ok {
		e.order = append(e.order, name)
	}
	e.vars[name] = v
}

// Lookup returns the value bound to name.
func (e *Env) Lookup(name string) (expr.Expr, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// BindOutput records the value of an effect output binding.
// Outputs live in their own namespace so they never shadow variables.
func (e *Env) BindOutput(name string, v expr.Expr) {
	e.outputs[name] = v
}

// LookupOutput returns the value of an effect output binding.
func (e *Env) LookupOutput(name string) (expr.Expr, bool) {
	v, ok := e.outputs[name]
	return v, ok
}

// Names returns bound variable names in order of first binding.
func (e *Env) Names() []string {
	return append([]string(nil), e.order...)
}
