// Package fixture declares lazily resolved, memoized properties on a plain
// context object. Properties are declared through a Binder with a literal or
// a factory as their subject; the factory runs at most once, on first read,
// and Restore removes everything a test declared. This is the flag-based
// variant: each slot keeps a memo flag and assignment resets it, so a factory
// assigned after resolution is invoked again on the next read. The stamp
// package implements the same surface by rewriting slots instead.
package fixture

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

type slot struct {
	subject any
	lazy    bool // installed through a binder, getter may invoke the subject
	literal bool // subject is data even if callable
	memo    bool // subject already resolved into a value
}

// Context is an ordered string-keyed property table. The zero value is not
// usable; obtain one from New or Attach.
type Context struct {
	slots  map[string]*slot
	order  []string
	sealed bool
}

// New returns a fresh context with a declaration helper installed under
// DefaultMethod.
func New() *Context {
	return Attach(nil, DefaultMethod)
}

// Attach installs a declaration helper on ctx as an ordinary enumerable
// property at method ("" means DefaultMethod), silently overwriting whatever
// property lives there. A nil ctx gets a fresh context. Each call installs a
// brand new Binder with an empty registry; re-attaching over an existing
// helper orphans the old one, and properties declared through it can then
// only be restored through a retained reference.
//
// Attach panics when the context is sealed and the method name is not
// already a property, since the helper cannot be installed.
func Attach(ctx *Context, method string) *Context {
	if ctx == nil {
		ctx = &Context{slots: map[string]*slot{}}
	}
	if method == "" {
		method = DefaultMethod
	}

	b := &Binder{ctx: ctx, method: method}
	if s, ok := ctx.slots[method]; ok {
		*s = slot{subject: b}
	} else {
		if ctx.sealed {
			panic("cannot attach to a sealed context")
		}
		ctx.install(method, &slot{subject: b})
	}
	return ctx
}

func (c *Context) install(name string, s *slot) {
	c.slots[name] = s
	c.order = append(c.order, name)
}

// Get reads a property. A pending slot is resolved first: a factory subject
// is invoked once with the context and its value memoized, anything else
// becomes the value as-is. A factory error is returned unmodified and leaves
// the slot pending, so the next read retries. Missing names read as nil.
func (c *Context) Get(name string) (any, error) {
	s, ok := c.slots[name]
	if !ok {
		return nil, nil
	}
	if !s.lazy || s.memo {
		return s.subject, nil
	}

	v, err := c.resolve(s)
	if err != nil {
		return nil, err
	}
	s.subject = v
	s.memo = true
	return v, nil
}

// MustGet is Get, panicking on a resolution error.
func (c *Context) MustGet(name string) any {
	v, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Get reads a property through c and asserts its type. A nil value of a
// present property yields the zero value; a missing property is an
// ErrUndeclared, unlike the untyped read.
func Get[T any](c *Context, name string) (T, error) {
	var zero T
	v, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		if c.Has(name) {
			return zero, nil
		}
		return zero, fmt.Errorf("property %q: %w", name, ErrUndeclared)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("property %q: have %T, want %T", name, v, zero)
	}
	return t, nil
}

// Set assigns a property. On a declared slot the subject is replaced and the
// memo flag cleared, back to pending: a literal reads back as itself, while
// an assigned factory is invoked on the next read. On an undeclared name it
// creates a plain data property outside any registry.
func (c *Context) Set(name string, value any) error {
	if name == "" {
		return fmt.Errorf("assign: %w", ErrEmptyName)
	}

	subject, literal := unwrap(value)
	s, ok := c.slots[name]
	if !ok {
		if c.sealed {
			return fmt.Errorf("assign %q: %w", name, ErrSealed)
		}
		c.install(name, &slot{subject: subject, literal: literal})
		return nil
	}

	s.subject = subject
	if s.lazy {
		s.literal = literal
		s.memo = false
	}
	return nil
}

// Delete removes a property and reports whether it existed. Sealed contexts
// refuse deletes.
func (c *Context) Delete(name string) bool {
	if c.sealed {
		return false
	}
	if _, ok := c.slots[name]; !ok {
		return false
	}
	delete(c.slots, name)
	for i, key := range c.order {
		if key == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *Context) Has(name string) bool {
	_, ok := c.slots[name]
	return ok
}

func (c *Context) Len() int {
	return len(c.slots)
}

// Keys lists property names in insertion order. Redeclaring or assigning an
// existing name keeps its original position; only delete-then-recreate moves
// a name to the end.
func (c *Context) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// State reports where a name sits in the Undeclared -> Pending -> Resolved
// lifecycle. Plain data properties are Resolved from birth.
func (c *Context) State(name string) SlotState {
	s, ok := c.slots[name]
	if !ok {
		return Undeclared
	}
	if !s.lazy || s.memo {
		return Resolved
	}
	return Pending
}

// Binder returns the declaration helper installed at method ("" means
// DefaultMethod), or nil when the property is absent or no longer holds one.
func (c *Context) Binder(method string) *Binder {
	if method == "" {
		method = DefaultMethod
	}
	s, ok := c.slots[method]
	if !ok {
		return nil
	}
	b, ok := s.subject.(*Binder)
	if !ok {
		return nil
	}
	return b
}

// Seal blocks property definition: declaring or assigning a new name fails
// with ErrSealed, deletes become no-ops, Attach under a new method panics.
// Writes to existing slots still work. There is no unseal.
func (c *Context) Seal() {
	c.sealed = true
}

// Fingerprint digests the ordered key list. Two contexts with the same
// properties in the same order agree; it says nothing about values, which
// makes it a cheap gate for detecting properties leaked past a restore.
func (c *Context) Fingerprint() uint64 {
	d := xxhash.New()
	for _, key := range c.order {
		d.WriteString(key)
		d.Write([]byte{0})
	}
	return d.Sum64()
}
