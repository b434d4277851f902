// Package registry provides the immutable function-name to effect-spec map
// used by the inference engine.
//
// # Overview
//
// The registry is the single namespace the engine resolves callees in. It
// is flat: names carry no package qualifier, so two functions with the same
// simple name collide. The collision policy is explicit and chosen when the
// builder is created.
//
// # Building
//
//	b := registry.NewBuilder(registry.RejectDuplicates)
//	for _, spec := range specs {
//	    if err := b.Add(spec); errors.Is(err, registry.ErrDuplicate) {
//	        // first registration wins; report the collision
//	    }
//	}
//	reg := b.Build()
//
// Under [LastWriteWins] the later spec replaces the earlier one and no
// error is returned. The position of a name in [Registry.Names] is that of
// its first registration either way.
//
// # Lookup
//
//	spec, ok := reg.Lookup("fn_with_effects")
//	if !ok {
//	    // unknown function: the engine treats the call as opaque
//	}
//
// A built registry is never mutated, so one registry may back any number of
// engines running in parallel.
package registry
