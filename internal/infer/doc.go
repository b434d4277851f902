// Package infer implements the interprocedural side-effect walk.
//
// # Overview
//
// The [Engine] starts at an entry function and resolves every call it
// reaches against a [registry.Registry]:
//
//   - Declared functions are evaluated directly. Their clauses are taken
//     as ground truth and never re-derived.
//   - Inferred functions are walked once with symbolic parameters. The
//     resulting template is cached by name and every later call only
//     substitutes its own arguments into it.
//   - Unknown functions are opaque: no effects, an unresolved return value
//     and one diagnostic.
//
// # Templates
//
// A template's parameters are placeholders owned by the function
// ([expr.Param]). Substitution replaces only placeholders of the function
// being instantiated, so a caller variable that happens to share a name
// with a callee parameter is never captured.
//
// The cache is keyed by name alone. A function first walked while one of
// its callers was on the stack keeps the cut it saw there.
//
// # Degradation
//
// Nothing stops a run. An unsupported statement, a dangling effect output
// or an invalid spec makes that function opaque for the rest of the run.
// A recursive call or the depth limit makes only that occurrence opaque.
// Each degradation is recorded once as a [Diagnostic].
//
// # Example
//
//	eng := infer.New(reg, infer.Config{MaxDepth: 64})
//	out := eng.Run("main")
//	for _, eff := range out.Effects {
//	    fmt.Println(eff.Label, eff.Args)
//	}
//	for _, d := range eng.Diagnostics() {
//	    fmt.Println(d)
//	}
package infer
