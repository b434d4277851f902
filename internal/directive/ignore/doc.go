// Package ignore provides //autobox:ignore directive parsing.
//
// # Overview
//
// The ignore directive drops effects of a single call from the inferred
// result. It is how a developer records that a call is known to be
// harmless, or that its effect is covered elsewhere in the policy.
//
// # Directive Placement
//
// The directive can appear on the line before or the same line:
//
//	//autobox:ignore
//	warmCache(dir)  // Call lowered as opaque
//
//	warmCache(dir)  //autobox:ignore  // Also works
//
// # Label-Specific Ignores
//
// Specify effect labels to drop only those effects and keep the rest of
// the call, including its return value:
//
//	//autobox:ignore net_connect
//	body := fetch(url)  // reads_file effects of fetch are still reported
//
//	//autobox:ignore net_connect,reads_file - cached by the caller
//	body := fetch(url)
//
// Text after " - " is a free-form reason.
//
// # Checking Ignores
//
// Use [Map.Lookup] while lowering a call:
//
//	m := ignore.Build(fset, file)
//	if entry, ok := m.Lookup(line); ok && entry.All() {
//	    // drop the call
//	}
//
// # Unused Ignore Detection
//
// [Map.Unused] returns directives that no call consumed; the analyzer
// reports them:
//
//	//autobox:ignore  // Warning: unused ignore directive
//	x := "literal"
package ignore
