package registry

import (
	"errors"
	"fmt"

	"github.com/mpyw/autobox/internal/funcspec"
)

// ErrDuplicate is returned by [Builder.Add] under [RejectDuplicates] when a
// name is already registered.
var ErrDuplicate = errors.New("duplicate function name")

// CollisionPolicy decides what happens when two specs share a flat name.
type CollisionPolicy int

const (
	// RejectDuplicates keeps the first spec and reports the second.
	RejectDuplicates CollisionPolicy = iota
	// LastWriteWins silently replaces the earlier spec.
	LastWriteWins
)

// ParseCollisionPolicy parses a flag value: "reject" or "last-write-wins".
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch s {
	case "", "reject":
		return RejectDuplicates, nil
	case "last-write-wins":
		return LastWriteWins, nil
	}
	return 0, fmt.Errorf("unknown collision policy %q", s)
}

func (p CollisionPolicy) String() string {
	if p == LastWriteWins {
		return "last-write-wins"
	}
	return "reject"
}

// Builder accumulates specs before they are frozen into a [Registry].
type Builder struct {
	policy CollisionPolicy
	specs  map[string]*funcspec.Spec
	order  []string
}

// NewBuilder creates an empty builder with the given collision policy.
func NewBuilder(policy CollisionPolicy) *Builder {
	return &Builder{
		policy: policy,
		specs:  make(map[string]*funcspec.Spec),
	}
}

// Add registers spec under spec.Name.
// Under RejectDuplicates a second spec for the same name is not stored and
// an error wrapping [ErrDuplicate] is returned.
func (b *Builder) Add(spec *funcspec.Spec) error {
	if spec == nil || spec.Name == "" {
		return errors.New("spec without name")
	}

	if _, exists := b.specs[spec.Name]; exists {
		if b.policy == RejectDuplicates {
			return fmt.Errorf("%w: %s", ErrDuplicate, spec.Name)
		}
		b.specs[spec.Name] = spec
		return nil
	}

	b.specs[spec.Name] = spec
	b.order = append(b.order, spec.Name)
	return nil
}

// Build freezes the builder. The builder must not be used afterwards.
func (b *Builder) Build() *Registry {
	r := &Registry{
		specs: b.specs,
		names: append([]string(nil), b.order...),
	}
	b.specs = nil
	b.order = nil
	return r
}

// Registry is a read-only name to spec map. It is safe for concurrent use.
type Registry struct {
	specs map[string]*funcspec.Spec
	names []string // registration order
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (*funcspec.Spec, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.specs[name]
	return s, ok
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Names returns every registered name in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.names...)
}

