package fixture

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Binder is the declaration helper Attach installs on a context. It owns the
// declaration registry: an ordered list of every name declared through it,
// duplicates included, which Restore unwinds like a stack.
type Binder struct {
	ctx      *Context
	method   string
	registry []string
}

// Set declares a lazy property. The subject may be a literal, a factory
// (see Get for the shapes), a Double, or a Literal-wrapped callable; nil
// declares an explicit null subject. Redeclaring a name overwrites its slot,
// discards any memoized value, and appends the name to the registry again.
//
// The registry entry is appended only after the slot is installed, so a
// failed declaration (empty name, sealed context) leaves nothing to restore.
func (b *Binder) Set(name string, value any) error {
	if name == "" {
		return fmt.Errorf("declare: %w", ErrEmptyName)
	}

	c := b.ctx
	subject, literal := unwrap(value)
	s, ok := c.slots[name]
	if !ok {
		if c.sealed {
			return fmt.Errorf("declare %q: %w", name, ErrSealed)
		}
		s = &slot{}
		c.install(name, s)
	}

	s.subject = subject
	s.lazy = true
	s.literal = literal
	s.memo = false

	b.registry = append(b.registry, name)
	return nil
}

// Restore pops the registry, deleting each popped name from the context,
// until the registry is empty. Names already gone, whether through duplicate
// registry entries or an explicit Delete, are skipped over, and restoring
// with an empty registry does nothing. The helper property itself is not
// part of its own registry and survives.
func (b *Binder) Restore() {
	for len(b.registry) > 0 {
		last := len(b.registry) - 1
		name := b.registry[last]
		b.registry = b.registry[:last]
		b.ctx.Delete(name)
	}
}

// Declared returns a copy of the registry in declaration order, duplicates
// included.
func (b *Binder) Declared() []string {
	declared := make([]string, len(b.registry))
	copy(declared, b.registry)
	return declared
}

// Names returns the distinct declared names in first-declared order.
func (b *Binder) Names() []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	names := make([]string, 0, len(b.registry))
	for _, name := range b.registry {
		if seen.Add(name) {
			names = append(names, name)
		}
	}
	return names
}

func (b *Binder) Method() string {
	return b.method
}

func (b *Binder) Context() *Context {
	return b.ctx
}
