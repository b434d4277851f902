// Package funcspec provides the per-function effect specification records
// that front ends hand to the inference core.
//
// # Overview
//
// A [Spec] describes one function under a flat name. It is either
// declared, meaning its effects are asserted and never re-derived, or
// inferred, meaning its normalized body is walked the first time it is
// needed.
//
// # Spec Structure
//
//	type Spec struct {
//	    Name    string                // flat key, e.g. "fn_with_effects" or "Config.Load"
//	    Kind    Kind                  // KindDeclared or KindInferred
//	    Params  []string              // binding names, positional
//	    Effects []Clause              // declared only
//	    Updates map[string]expr.Expr  // declared only
//	    Returns expr.Expr             // declared only
//	    Body    []Stmt                // inferred only
//	}
//
// # Clause Syntax
//
// Use [ParseClause] or [ParseClauses] to read declaration text:
//
//	reads_file(A + '/' + B)
//	eval(A + '/') as U
//	read_file(U) as O
//	connect(host, port)
//
// Output names parse as plain variables; call [BindOutputs] once the whole
// spec is assembled to turn them into effect output references.
//
// # Names
//
// Use [ParseName] to split a qualified name and [Name.Key] for the flat
// registry key:
//
//	funcspec.ParseName("os.ReadFile").Key()                  // "ReadFile"
//	funcspec.ParseName("github.com/pkg.Config.Load").Key()   // "Config.Load"
//
// [NameOf] does the same for a types.Func found by a Go front end.
//
// # Statements
//
// Inferred bodies are restricted to [LiteralAssign], [MoveAssign],
// [ExprAssign], [CallAssign] and [Return]. Anything else is an
// [Unsupported] placeholder that aborts inference of the function.
package funcspec
