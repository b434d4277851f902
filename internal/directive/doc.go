// Package directive provides directive parsing for autobox.
//
// # Overview
//
// This package contains subpackages for parsing comment directives
// that control analyzer behavior:
//
//	directive/
//	├── declare/   # //autobox:declare effect declarations
//	├── ignore/    # //autobox:ignore directive
//	└── marker/    # //autobox:entrypoint and //autobox:infer
//
// # Directive Format
//
// All directives follow the format:
//
//	//autobox:<directive> [args]
//
// Function-level directives go in the doc comment of the function:
//
//	//autobox:entrypoint
//	func main() { ... }
//
// # Declare Directive
//
// Asserts the effects of a function instead of inferring them from its
// body:
//
//	//autobox:declare args=(dir as A, name as B) side_effects=(reads_file(A + '/' + B)) returns=(A + '/' + B)
//	func readConfig(dir, name string) string { ... }
//
// See [declare] package for details.
//
// # Ignore Directive
//
// Drops effects of the call on the next line or same line:
//
//	//autobox:ignore
//	warmCache(dir)
//
//	body := fetch(url) //autobox:ignore net_connect
//
// See [ignore] package for details.
//
// # Entrypoint and Infer Directives
//
// Every function with a body is inferred when reached; //autobox:infer only
// makes that explicit. //autobox:entrypoint marks where a report starts.
//
// See [marker] package for details.
package directive
