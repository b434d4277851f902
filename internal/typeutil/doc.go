// Package typeutil provides type checking utilities for autobox.
//
// # Overview
//
// This package answers the few type questions lowering needs: which
// function a call resolves to, whether an expression is a constant string,
// and whether it is string-typed at all.
//
// # Callee Resolution
//
// Use [CalleeOf] to find the static callee of a call:
//
//	if fn := typeutil.CalleeOf(info, call); fn != nil {
//	    name := funcspec.NameOf(fn).Key()
//	}
//
// It resolves plain identifiers, package selectors, method selections
// (value and pointer receivers) and explicit generic instantiations.
// Calls through function values return nil.
//
// # Strings
//
//	typeutil.StringConst(info, e)  // "a" + "b", named constants, ...
//	typeutil.IsString(info, e)     // string, named string types, *string
package typeutil
