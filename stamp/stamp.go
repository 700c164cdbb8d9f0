// Package stamp is the self-rewriting sibling of fixture. A declared slot
// survives only until its first read: resolution stamps the value in as a
// plain data property, and assignment overwrites immediately with no pending
// state, so a factory assigned after declaration is stored, never invoked.
package stamp

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
)

const DefaultMethod = "set"

type SlotState uint8

const (
	Undeclared SlotState = iota
	Pending
	Resolved
)

type Factory func(*Context) (any, error)

type Double interface {
	CallCount() int
}

type literalValue struct {
	v any
}

func Literal(value any) any {
	return literalValue{v: value}
}

func unwrap(value any) (subject any, literal bool) {
	if lv, ok := value.(literalValue); ok {
		return lv.v, true
	}
	return value, false
}

var (
	ErrEmptyName  = errors.New("property name must not be empty")
	ErrSealed     = errors.New("context is sealed against property definition")
	ErrUndeclared = errors.New("property is not declared")
)

type prop struct {
	subject any
	lazy    bool
	literal bool
}

type Context struct {
	props  map[string]*prop
	order  []string
	sealed bool
}

func New() *Context {
	return Attach(nil, DefaultMethod)
}

func Attach(ctx *Context, method string) *Context {
	if ctx == nil {
		ctx = &Context{props: map[string]*prop{}}
	}
	if method == "" {
		method = DefaultMethod
	}

	b := &Binder{ctx: ctx, method: method}
	if p, ok := ctx.props[method]; ok {
		*p = prop{subject: b}
	} else {
		if ctx.sealed {
			panic("cannot attach to a sealed context")
		}
		ctx.install(method, &prop{subject: b})
	}
	return ctx
}

func (c *Context) install(name string, p *prop) {
	c.props[name] = p
	c.order = append(c.order, name)
}

func (c *Context) Get(name string) (any, error) {
	p, ok := c.props[name]
	if !ok {
		return nil, nil
	}
	if !p.lazy {
		return p.subject, nil
	}

	v, err := c.materialize(p)
	if err != nil {
		return nil, err
	}
	// stamp the value in, the slot is a plain data property from here on
	p.subject = v
	p.lazy = false
	p.literal = false
	return v, nil
}

func (c *Context) MustGet(name string) any {
	v, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

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

func (c *Context) Set(name string, value any) error {
	if name == "" {
		return fmt.Errorf("assign: %w", ErrEmptyName)
	}

	subject, _ := unwrap(value)
	p, ok := c.props[name]
	if !ok {
		if c.sealed {
			return fmt.Errorf("assign %q: %w", name, ErrSealed)
		}
		c.install(name, &prop{subject: subject})
		return nil
	}

	p.subject = subject
	p.lazy = false
	p.literal = false
	return nil
}

func (c *Context) Delete(name string) bool {
	if c.sealed {
		return false
	}
	if _, ok := c.props[name]; !ok {
		return false
	}
	delete(c.props, name)
	for i, key := range c.order {
		if key == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *Context) Has(name string) bool {
	_, ok := c.props[name]
	return ok
}

func (c *Context) Len() int {
	return len(c.props)
}

func (c *Context) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

func (c *Context) State(name string) SlotState {
	p, ok := c.props[name]
	if !ok {
		return Undeclared
	}
	if p.lazy {
		return Pending
	}
	return Resolved
}

func (c *Context) Binder(method string) *Binder {
	if method == "" {
		method = DefaultMethod
	}
	p, ok := c.props[method]
	if !ok {
		return nil
	}
	b, ok := p.subject.(*Binder)
	if !ok {
		return nil
	}
	return b
}

func (c *Context) Seal() {
	c.sealed = true
}

func (c *Context) Fingerprint() uint64 {
	d := xxhash.New()
	for _, key := range c.order {
		d.WriteString(key)
		d.Write([]byte{0})
	}
	return d.Sum64()
}

type Binder struct {
	ctx      *Context
	method   string
	registry []string
}

func (b *Binder) Set(name string, value any) error {
	if name == "" {
		return fmt.Errorf("declare: %w", ErrEmptyName)
	}

	c := b.ctx
	subject, literal := unwrap(value)
	p, ok := c.props[name]
	if !ok {
		if c.sealed {
			return fmt.Errorf("declare %q: %w", name, ErrSealed)
		}
		p = &prop{}
		c.install(name, p)
	}

	p.subject = subject
	p.lazy = true
	p.literal = literal

	b.registry = append(b.registry, name)
	return nil
}

func (b *Binder) Restore() {
	for len(b.registry) > 0 {
		last := len(b.registry) - 1
		name := b.registry[last]
		b.registry = b.registry[:last]
		b.ctx.Delete(name)
	}
}

func (b *Binder) Declared() []string {
	declared := make([]string, len(b.registry))
	copy(declared, b.registry)
	return declared
}

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

func (c *Context) materialize(p *prop) (any, error) {
	if p.literal {
		return p.subject, nil
	}
	if _, ok := p.subject.(Double); ok {
		return p.subject, nil
	}
	invoke, ok := asFactory(p.subject)
	if !ok {
		return p.subject, nil
	}
	return invoke(c)
}

func asFactory(subject any) (Factory, bool) {
	switch fn := subject.(type) {
	case Factory:
		if fn != nil {
			return fn, true
		}
	case func(*Context) (any, error):
		if fn != nil {
			return fn, true
		}
	case func(*Context) any:
		if fn != nil {
			return func(c *Context) (any, error) {
				return fn(c), nil
			}, true
		}
	case func() (any, error):
		if fn != nil {
			return func(*Context) (any, error) {
				return fn()
			}, true
		}
	case func() any:
		if fn != nil {
			return func(*Context) (any, error) {
				return fn(), nil
			}, true
		}
	default:
		return reflectFactory(subject)
	}
	return nil, false
}

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*Context)(nil))
)

func reflectFactory(subject any) (Factory, bool) {
	rv := reflect.ValueOf(subject)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, false
	}

	rt := rv.Type()
	wantsContext := false
	switch {
	case rt.NumIn() == 0:
	case rt.NumIn() == 1 && rt.IsVariadic():
	case rt.NumIn() == 1 && rt.In(0) == contextType:
		wantsContext = true
	default:
		return nil, false
	}
	if rt.NumOut() > 2 {
		return nil, false
	}
	if rt.NumOut() == 2 && rt.Out(1) != errorType {
		return nil, false
	}

	return func(c *Context) (any, error) {
		var in []reflect.Value
		if wantsContext {
			in = []reflect.Value{reflect.ValueOf(c)}
		}
		out := rv.Call(in)
		switch len(out) {
		case 0:
			return nil, nil
		case 1:
			return out[0].Interface(), nil
		default:
			v := out[0].Interface()
			if errAny := out[1].Interface(); errAny != nil {
				return v, errAny.(error)
			}
			return v, nil
		}
	}, true
}
