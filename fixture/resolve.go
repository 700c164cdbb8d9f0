package fixture

import "reflect"

// asFactory reports whether a subject is invokable by the getter, and if so
// returns it normalized to the canonical shape. The common shapes are matched
// directly; anything else that is still a plausible factory (no parameters,
// or a single *Context parameter, at most two results with a trailing error)
// goes through reflection. Funcs outside those shapes are data.
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
	// a nil func of a recognized shape is data, there is nothing to invoke
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

// resolve produces the slot's value without mutating it. The caller decides
// whether to memoize, so a failed factory leaves the slot retryable.
func (c *Context) resolve(s *slot) (any, error) {
	if s.literal {
		return s.subject, nil
	}
	if _, ok := s.subject.(Double); ok {
		return s.subject, nil
	}
	invoke, ok := asFactory(s.subject)
	if !ok {
		return s.subject, nil
	}
	return invoke(c)
}
